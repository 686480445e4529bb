package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/html-inliner/internal/interfaces/infra"
	"github.com/sunr3d/html-inliner/models"
)

var _ infra.WorkspaceRegistry = (*inmemRegistry)(nil)

type inmemRegistry struct {
	logger *zap.Logger
	db     map[string]*models.Workspace
	mu     sync.RWMutex
	ttl    time.Duration
	now    func() time.Time
}

// New возвращает реестр живых рабочих директорий.
// Записи старше ttl считаются брошенными и выбрасываются при подсчете.
func New(log *zap.Logger, ttl time.Duration) infra.WorkspaceRegistry {
	return &inmemRegistry{
		logger: log,
		db:     make(map[string]*models.Workspace),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (db *inmemRegistry) SaveWorkspace(ctx context.Context, ws *models.Workspace) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if ws == nil {
		return ErrWorkspaceNil
	}

	if ws.ID == "" {
		return ErrWorkspaceIDEmpty
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.db[ws.ID] = ws
	db.logger.Debug("рабочая директория зарегистрирована", zap.String("workspace_id", ws.ID))

	return nil
}

func (db *inmemRegistry) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if id == "" {
		return nil, ErrWorkspaceIDEmpty
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	ws, exists := db.db[id]
	if !exists {
		return nil, ErrWorkspaceNotFound
	}
	if db.expired(ws) {
		return nil, ErrWorkspaceNotFound
	}

	return ws, nil
}

func (db *inmemRegistry) CountActive(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	count := 0
	for id, ws := range db.db {
		if db.expired(ws) {
			delete(db.db, id)
			db.logger.Info("рабочая директория снята с учета по TTL", zap.String("workspace_id", id))
			continue
		}
		count++
	}

	return count, nil
}

func (db *inmemRegistry) DeleteWorkspace(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if id == "" {
		return ErrWorkspaceIDEmpty
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.db[id]; !exists {
		return ErrWorkspaceNotFound
	}

	delete(db.db, id)
	db.logger.Debug("рабочая директория снята с учета", zap.String("workspace_id", id))

	return nil
}

func (db *inmemRegistry) expired(ws *models.Workspace) bool {
	return db.ttl > 0 && db.now().Sub(ws.CreatedAt) > db.ttl
}
