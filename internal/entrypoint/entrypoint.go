package entrypoint

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sunr3d/html-inliner/internal/api"
	"github.com/sunr3d/html-inliner/internal/config"
	"github.com/sunr3d/html-inliner/internal/infra/gateway"
	"github.com/sunr3d/html-inliner/internal/infra/inmem"
	"github.com/sunr3d/html-inliner/internal/infra/sweeper"
	"github.com/sunr3d/html-inliner/internal/infra/workspace"
	"github.com/sunr3d/html-inliner/internal/server"
	"github.com/sunr3d/html-inliner/internal/services/converter_service"
)

func Run(cfg *config.Config, log *zap.Logger) error {
	if err := os.MkdirAll(cfg.TempDir, 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию для временных файлов: %w", err)
	}
	log.Info("директория для временных файлов готова", zap.String("path", cfg.TempDir))

	registry := inmem.New(log, cfg.StaleAfter)
	workspaces := workspace.New(log, cfg, registry)
	defer workspaces.Wait()

	sweep, err := sweeper.New(log, cfg.SweepSchedule, workspaces)
	if err != nil {
		return err
	}
	// Остатки предыдущего запуска удаляются сразу, не дожидаясь расписания.
	sweep.RunNow()
	sweep.Start()
	defer sweep.Stop()

	svc := converter_service.New(log, cfg, workspaces, gateway.New(log, cfg))
	controller := api.New(svc, log, cfg)
	router := api.NewRouter(controller, cfg, log)

	srv := server.New(cfg, router, log)
	return srv.Start()
}
