package converter_service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/html-inliner/internal/archive"
	"github.com/sunr3d/html-inliner/internal/config"
	"github.com/sunr3d/html-inliner/internal/inliner"
	"github.com/sunr3d/html-inliner/internal/interfaces/infra"
	"github.com/sunr3d/html-inliner/internal/interfaces/services"
	"github.com/sunr3d/html-inliner/models"
)

const (
	inputArchiveName     = "input.zip"
	convertedArchiveName = "converted.zip"
	sourceDirName        = "source"
	extractDirName       = "extracted"
	defaultDocumentName  = "document.docx"
)

var _ services.ConverterService = (*converterService)(nil)

type converterService struct {
	workspaces infra.WorkspaceManager
	gateway    infra.Gateway
	inliner    *inliner.Inliner
	logger     *zap.Logger
	cfg        *config.Config
}

func New(log *zap.Logger, cfg *config.Config, workspaces infra.WorkspaceManager, gateway infra.Gateway) services.ConverterService {
	return &converterService{
		workspaces: workspaces,
		gateway:    gateway,
		inliner:    inliner.New(log, cfg.ImageWorkers),
		logger:     log,
		cfg:        cfg,
	}
}

func (s *converterService) ConvertArchive(ctx context.Context, data []byte) (*models.ConversionResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if len(data) == 0 {
		return nil, ErrInvalidInput
	}

	ws, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.workspaces.Release(ws)

	src, err := s.saveFile(ws, inputArchiveName, data)
	if err != nil {
		return nil, err
	}

	return s.process(ctx, ws, src)
}

func (s *converterService) ConvertDocument(ctx context.Context, document []byte, fileName string) (*models.ConversionResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if len(document) == 0 {
		return nil, ErrInvalidInput
	}

	fileName = cleanFileName(fileName)

	ws, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.workspaces.Release(ws)

	if _, err := s.saveFile(ws, filepath.Join(sourceDirName, fileName), document); err != nil {
		return nil, err
	}

	started := time.Now()
	converted, err := s.gateway.Convert(ctx, document, fileName)
	if err != nil {
		s.logger.Error("внешняя конвертация не удалась",
			zap.String("workspace_id", ws.ID),
			zap.String("file", fileName),
			zap.Error(err),
		)
		return nil, err
	}
	s.logger.Info("документ сконвертирован во внешнем сервисе",
		zap.String("workspace_id", ws.ID),
		zap.String("file", fileName),
		zap.Duration("took", time.Since(started)),
	)

	src, err := s.saveFile(ws, convertedArchiveName, converted)
	if err != nil {
		return nil, err
	}

	return s.process(ctx, ws, src)
}

func (s *converterService) ActiveWorkspaces(ctx context.Context) (int, error) {
	return s.workspaces.Active(ctx)
}

func (s *converterService) acquire(ctx context.Context) (*models.Workspace, error) {
	active, err := s.workspaces.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить количество активных конвертаций: %w", err)
	}

	if s.cfg.MaxActiveWorkspaces > 0 && active >= s.cfg.MaxActiveWorkspaces {
		return nil, ErrServerBusy
	}

	ws, err := s.workspaces.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkspace, err)
	}

	return ws, nil
}

// process распаковывает архив, встраивает изображения первого HTML документа
// и проверяет результат.
func (s *converterService) process(ctx context.Context, ws *models.Workspace, src string) (*models.ConversionResult, error) {
	dest := filepath.Join(ws.Path, extractDirName)

	files, err := archive.Extract(src, dest)
	if err != nil {
		return nil, err
	}

	docs, err := archive.FindDocuments(dest)
	if err != nil {
		return nil, err
	}
	if len(docs) > 1 {
		s.logger.Warn("в архиве несколько HTML документов, обрабатывается только первый",
			zap.String("workspace_id", ws.ID),
			zap.Int("documents", len(docs)),
			zap.String("selected", docs[0]),
		)
	}

	html, err := s.inliner.InlineFile(ctx, docs[0], dest)
	if err != nil {
		return nil, err
	}

	stats := inliner.Verify(html)
	stats.FileName = relName(dest, docs[0])

	s.logger.Info("HTML документ обработан",
		zap.String("workspace_id", ws.ID),
		zap.String("document", stats.FileName),
		zap.Int("archive_files", len(files)),
		zap.String("size", stats.FileSize),
		zap.Int("images_converted", stats.ImagesConverted),
		zap.Int("total_images", stats.TotalImages),
		zap.Bool("success", stats.Success),
	)

	return &models.ConversionResult{HTML: html, Stats: stats}, nil
}

func (s *converterService) saveFile(ws *models.Workspace, name string, data []byte) (string, error) {
	path := filepath.Join(ws.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFileCreateFailed, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFileCreateFailed, err)
	}

	return path, nil
}

func cleanFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return defaultDocumentName
	}
	return name
}

func relName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
