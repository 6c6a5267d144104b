package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	name      string
	startErr  error
	stopErr   error
	healthErr error

	mu      sync.Mutex
	started bool
	stopped bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	return nil
}

func (s *fakeService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return s.stopErr
}

func (s *fakeService) HealthCheck(ctx context.Context) error { return s.healthErr }

func (s *fakeService) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunnerStartsAndStopsAllServices(t *testing.T) {
	first := &fakeService{name: "first"}
	second := &fakeService{name: "second"}
	r := New([]Service{first, second}, WithLogger(discardLogger()))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		first.mu.Lock()
		defer first.mu.Unlock()
		return first.started
	}, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not shut down")
	}

	assert.True(t, first.wasStopped())
	assert.True(t, second.wasStopped())
}

func TestRunnerRollsBackOnStartFailure(t *testing.T) {
	first := &fakeService{name: "first"}
	broken := &fakeService{name: "broken", startErr: errors.New("port in use")}
	never := &fakeService{name: "never"}
	r := New([]Service{first, broken, never}, WithLogger(discardLogger()))

	err := r.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.True(t, first.wasStopped(), "already started services must be stopped")
	assert.False(t, never.wasStopped())

	never.mu.Lock()
	defer never.mu.Unlock()
	assert.False(t, never.started, "services after the failure must not start")
}

func TestRunnerPropagatesStopFailure(t *testing.T) {
	leaky := &fakeService{name: "leaky", stopErr: errors.New("connection drain failed")}
	r := New([]Service{leaky}, WithLogger(discardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leaky")
}

func TestRunnerHealthCheck(t *testing.T) {
	healthy := &fakeService{name: "healthy"}
	r := New([]Service{healthy}, WithLogger(discardLogger()))
	assert.NoError(t, r.HealthCheck(context.Background()))

	sick := &fakeService{name: "sick", healthErr: errors.New("broker unreachable")}
	r = New([]Service{healthy, sick}, WithLogger(discardLogger()))

	err := r.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sick")
}
