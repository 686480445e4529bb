package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/sunr3d/html-inliner/models"
)

type countingManager struct {
	sweeps atomic.Int32
	err    error
}

func (m *countingManager) Acquire(context.Context) (*models.Workspace, error) { return nil, nil }
func (m *countingManager) Release(*models.Workspace)                          {}
func (m *countingManager) Active(context.Context) (int, error)                { return 0, nil }

func (m *countingManager) Sweep(context.Context) error {
	m.sweeps.Add(1)
	return m.err
}

func TestSweeper_InvalidSchedule(t *testing.T) {
	_, err := New(zaptest.NewLogger(t), "not a schedule", &countingManager{})
	assert.Error(t, err)
}

func TestSweeper_RunNow(t *testing.T) {
	target := &countingManager{err: errors.New("boom")}
	s, err := New(zaptest.NewLogger(t), "*/5 * * * *", target)
	require.NoError(t, err)

	s.RunNow()
	s.RunNow()

	assert.Equal(t, int32(2), target.sweeps.Load())
}

func TestSweeper_RunsOnSchedule(t *testing.T) {
	target := &countingManager{}
	// cron пишет в лог из своей горутины и после Stop, zaptest этого не допускает.
	s, err := New(zap.NewNop(), "@every 1s", target)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return target.sweeps.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}
