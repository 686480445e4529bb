package inmem

import "errors"

var (
	ErrWorkspaceNotFound = errors.New("рабочая директория не найдена")
	ErrWorkspaceNil      = errors.New("рабочая директория не может быть nil")
	ErrWorkspaceIDEmpty  = errors.New("ID рабочей директории не может быть пустым")
	ErrContextDone       = errors.New("отмена контекста")
)
