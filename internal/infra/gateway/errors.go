package gateway

import "errors"

var (
	ErrGateway         = errors.New("ошибка сервиса конвертации документов")
	ErrUploadFailed    = errors.New("не удалось загрузить документ на конвертацию")
	ErrDownloadFailed  = errors.New("не удалось скачать результат конвертации")
	ErrMalformedResp   = errors.New("некорректный ответ сервиса конвертации")
	ErrInvalidArchive  = errors.New("результат конвертации не является zip-архивом")
	ErrUnexpectedState = errors.New("неожиданный HTTP статус")
)
