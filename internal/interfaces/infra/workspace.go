package infra

import (
	"context"

	"github.com/sunr3d/html-inliner/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=WorkspaceManager --output=../../../mocks
type WorkspaceManager interface {
	Acquire(ctx context.Context) (*models.Workspace, error)
	Release(ws *models.Workspace)
	Sweep(ctx context.Context) error
	Active(ctx context.Context) (int, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=WorkspaceRegistry --output=../../../mocks
type WorkspaceRegistry interface {
	SaveWorkspace(ctx context.Context, ws *models.Workspace) error
	GetWorkspace(ctx context.Context, id string) (*models.Workspace, error)
	CountActive(ctx context.Context) (int, error)
	DeleteWorkspace(ctx context.Context, id string) error
}
