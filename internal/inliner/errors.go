package inliner

import "errors"

var (
	ErrContextDone  = errors.New("отмена контекста")
	ErrReadDocument = errors.New("не удалось прочитать HTML документ")
	ErrParse        = errors.New("не удалось разобрать HTML документ")
	ErrRender       = errors.New("не удалось сериализовать HTML документ")

	ErrImageResolve   = errors.New("не удалось встроить изображение")
	ErrOutsideRoot    = errors.New("путь изображения вне распакованного архива")
	ErrUnsupportedRef = errors.New("ссылка не указывает на локальный файл")
)
