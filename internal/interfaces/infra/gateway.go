package infra

import "context"

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=Gateway --output=../../../mocks
type Gateway interface {
	// Convert отправляет исходный документ во внешний сервис и возвращает zip-архив с HTML.
	Convert(ctx context.Context, document []byte, fileName string) ([]byte, error)
}
