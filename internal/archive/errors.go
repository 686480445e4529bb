package archive

import "errors"

var (
	ErrExtraction = errors.New("не удалось распаковать архив")
	ErrNoDocument = errors.New("в архиве не найден HTML документ")
	ErrUnsafePath = errors.New("путь элемента архива выходит за пределы директории распаковки")
)
