package converter_service

import "errors"

var (
	ErrContextDone = errors.New("отмена контекста")

	ErrServerBusy   = errors.New("сервер занят, достигнуто максимальное количество одновременных конвертаций")
	ErrInvalidInput = errors.New("пустой входной файл")

	ErrWorkspace        = errors.New("не удалось подготовить рабочую директорию")
	ErrFileCreateFailed = errors.New("не удалось сохранить файл")
)
