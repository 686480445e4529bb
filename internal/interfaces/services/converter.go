package services

import (
	"context"

	"github.com/sunr3d/html-inliner/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=ConverterService --output=../../../mocks
type ConverterService interface {
	ConvertArchive(ctx context.Context, archive []byte) (*models.ConversionResult, error)
	ConvertDocument(ctx context.Context, document []byte, fileName string) (*models.ConversionResult, error)

	ActiveWorkspaces(ctx context.Context) (int, error)
}
