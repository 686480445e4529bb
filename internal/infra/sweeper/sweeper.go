package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sunr3d/html-inliner/internal/interfaces/infra"
)

const sweepTimeout = time.Minute

// Sweeper запускает очистку временного корня по cron-расписанию.
type Sweeper struct {
	cron   *cron.Cron
	target infra.WorkspaceManager
	logger *zap.Logger
}

func New(log *zap.Logger, schedule string, target infra.WorkspaceManager) (*Sweeper, error) {
	cl := cronLogger{log: log.Sugar()}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	s := &Sweeper{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		target: target,
		logger: log,
	}

	if _, err := s.cron.AddFunc(schedule, s.RunNow); err != nil {
		return nil, fmt.Errorf("некорректное расписание очистки %q: %w", schedule, err)
	}

	return s, nil
}

func (s *Sweeper) Start() {
	s.logger.Info("планировщик очистки запущен")
	s.cron.Start()
}

// Stop останавливает планировщик и ждет завершения текущего прохода.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("планировщик очистки остановлен")
}

func (s *Sweeper) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if err := s.target.Sweep(ctx); err != nil {
		s.logger.Error("ошибка очистки временных файлов", zap.Error(err))
	}
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
