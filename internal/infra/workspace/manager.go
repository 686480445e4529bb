package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunr3d/html-inliner/internal/config"
	"github.com/sunr3d/html-inliner/internal/interfaces/infra"
	"github.com/sunr3d/html-inliner/models"
)

var _ infra.WorkspaceManager = (*Manager)(nil)

// Manager выдает каждому запросу собственную директорию под корнем TempDir
// и отвечает за ее удаление: отложенное после Release и периодическое через Sweep.
type Manager struct {
	root       string
	grace      time.Duration
	staleAfter time.Duration

	registry infra.WorkspaceRegistry
	logger   *zap.Logger

	newID func() string
	now   func() time.Time

	pending sync.WaitGroup
}

func New(log *zap.Logger, cfg *config.Config, registry infra.WorkspaceRegistry) *Manager {
	return &Manager{
		root:       filepath.Clean(cfg.TempDir),
		grace:      cfg.CleanupDelay,
		staleAfter: cfg.StaleAfter,
		registry:   registry,
		logger:     log,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

func (m *Manager) Root() string {
	return m.root
}

func (m *Manager) Acquire(ctx context.Context) (*models.Workspace, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if err := os.MkdirAll(m.root, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}

	ws := &models.Workspace{
		ID:        m.newID(),
		CreatedAt: m.now(),
	}
	ws.Path = filepath.Join(m.root, ws.ID)

	// Mkdir, а не MkdirAll: повтор ID не должен дать двум запросам общую директорию.
	if err := os.Mkdir(ws.Path, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMkdirFailed, err)
	}

	if err := m.registry.SaveWorkspace(ctx, ws); err != nil {
		_ = os.RemoveAll(ws.Path)
		return nil, fmt.Errorf("%w: %v", ErrRegister, err)
	}

	m.logger.Debug("рабочая директория создана",
		zap.String("workspace_id", ws.ID),
		zap.String("path", ws.Path),
	)

	return ws, nil
}

// Release снимает директорию с учета и планирует ее удаление через grace.
// Ошибки удаления только логируются.
func (m *Manager) Release(ws *models.Workspace) {
	if ws == nil {
		return
	}

	if err := m.registry.DeleteWorkspace(context.Background(), ws.ID); err != nil {
		m.logger.Debug("рабочая директория уже снята с учета",
			zap.String("workspace_id", ws.ID),
			zap.Error(err),
		)
	}

	m.pending.Add(1)
	time.AfterFunc(m.grace, func() {
		defer m.pending.Done()

		if err := m.remove(ws.Path); err != nil {
			m.logger.Warn("не удалось очистить рабочую директорию",
				zap.String("workspace_id", ws.ID),
				zap.String("path", ws.Path),
				zap.Error(err),
			)
			return
		}
		m.logger.Debug("рабочая директория удалена", zap.String("workspace_id", ws.ID))
	})
}

// Wait блокируется до завершения всех запланированных удалений.
func (m *Manager) Wait() {
	m.pending.Wait()
}

func (m *Manager) Active(ctx context.Context) (int, error) {
	return m.registry.CountActive(ctx)
}

// Sweep удаляет из корня все файлы и директории старше staleAfter,
// начиная с потомков. Живые зарегистрированные директории пропускаются.
func (m *Manager) Sweep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	entries, err := os.ReadDir(m.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrSweepRoot, err)
	}

	stats := &sweepStats{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrContextDone, err)
		}

		if entry.IsDir() {
			if _, err := m.registry.GetWorkspace(ctx, entry.Name()); err == nil {
				stats.skipped++
				continue
			}
		}
		m.sweepEntry(ctx, filepath.Join(m.root, entry.Name()), entry, stats)
	}

	m.logger.Info("очистка временных файлов завершена",
		zap.String("root", m.root),
		zap.Int("removed", stats.removed),
		zap.Int("failed", stats.failed),
		zap.Int("skipped_live", stats.skipped),
	)

	return nil
}

type sweepStats struct {
	removed int
	failed  int
	skipped int
}

func (m *Manager) sweepEntry(ctx context.Context, path string, entry fs.DirEntry, stats *sweepStats) {
	info, err := entry.Info()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			stats.failed++
			m.logger.Warn("не удалось получить сведения о файле", zap.String("path", path), zap.Error(err))
		}
		return
	}

	if m.now().Sub(info.ModTime()) <= m.staleAfter {
		return
	}

	if entry.IsDir() {
		children, err := os.ReadDir(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("не удалось прочитать директорию", zap.String("path", path), zap.Error(err))
		}
		for _, child := range children {
			if ctx.Err() != nil {
				return
			}
			m.sweepEntry(ctx, filepath.Join(path, child.Name()), child, stats)
		}
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		stats.failed++
		m.logger.Warn("не удалось удалить устаревший файл",
			zap.String("path", path),
			zap.Error(fmt.Errorf("%w: %v", ErrCleanup, err)),
		)
		return
	}

	stats.removed++
	m.logger.Debug("устаревший файл удален", zap.String("path", path))
}

func (m *Manager) remove(path string) error {
	rel, err := filepath.Rel(m.root, filepath.Clean(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("%w: %v", ErrCleanup, err)
	}

	return nil
}
