package workspace

import "errors"

var (
	ErrContextDone = errors.New("отмена контекста")
	ErrMkdirFailed = errors.New("не удалось создать рабочую директорию")
	ErrRegister    = errors.New("не удалось зарегистрировать рабочую директорию")
	ErrCleanup     = errors.New("не удалось удалить рабочую директорию")
	ErrOutsideRoot = errors.New("путь вне корня временных файлов")
	ErrSweepRoot   = errors.New("не удалось прочитать корень временных файлов")
)
