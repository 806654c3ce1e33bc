package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confsync/confsync"
	"github.com/confsync/confsync/pkg/conferences"
)

// stubService satisfies confsync.Confsync for command wiring tests.
type stubService struct {
	status confsync.Status
}

func (s *stubService) RunCycle(context.Context) (*confsync.Summary, error) {
	return &confsync.Summary{Processed: 1}, nil
}
func (s *stubService) Trigger() bool          { return true }
func (s *stubService) SchedulerOn() error     { return nil }
func (s *stubService) SchedulerOff() error    { return nil }
func (s *stubService) Status() confsync.Status { return s.status }
func (s *stubService) Preview(context.Context, int) ([]conferences.Candidate, error) {
	return nil, nil
}
func (s *stubService) Export(context.Context) (*confsync.Snapshot, error) {
	return &confsync.Snapshot{Year: 2026}, nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	logger := zerolog.Nop()
	a, err := New("test", "none", "now", "go test",
		WithConfig(validConfig()),
		WithLogger(&logger),
		WithService(&stubService{}),
	)
	require.NoError(t, err)
	return a
}

func TestNewApp(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, "test", a.Version())
	assert.NotNil(t, a.Config())
	assert.NotNil(t, a.Logger())
}

func TestServiceSingleton(t *testing.T) {
	a := newTestApp(t)

	svc1, err := a.Service(context.Background())
	require.NoError(t, err)
	svc2, err := a.Service(context.Background())
	require.NoError(t, err)

	assert.Same(t, svc1.(*stubService), svc2.(*stubService))
}

func TestVersionCommand(t *testing.T) {
	a := newTestApp(t)

	var out bytes.Buffer
	cmd := a.CreateVersionCommand()
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Contains(t, out.String(), "confsync test")
}

func TestStatusCommandTableOutput(t *testing.T) {
	a := newTestApp(t)

	var out bytes.Buffer
	cmd := a.CreateStatusCommand()
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, nil))

	assert.Contains(t, out.String(), "Scheduler:")
	assert.Contains(t, out.String(), "Stopped")
}

func TestShutdownStopsScheduler(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Shutdown(context.Background()))
}
