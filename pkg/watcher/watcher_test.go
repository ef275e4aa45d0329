package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func writeOverride(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func waitChanged(t *testing.T, w *Watcher, within time.Duration) {
	t.Helper()
	select {
	case <-w.Changed():
	case <-time.After(within):
		t.Fatal("timeout waiting for change notification")
	}
}

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var calls atomic.Int32

	for range 10 {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var called atomic.Bool

	d.Trigger(func() { called.Store(true) })
	d.Cancel()
	time.Sleep(100 * time.Millisecond)

	assert.False(t, called.Load(), "callback ran after Cancel")
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	assert.Equal(t, DefaultDebounceDuration, NewDebouncer(0).Duration())
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := writeOverride(t, "scenarios: []\n")

	var changes atomic.Int32
	w, err := New(path,
		WithDebounceDuration(50*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("scenarios: [] # edited\n"), 0o644))

	waitChanged(t, w, 2*time.Second)
	assert.GreaterOrEqual(t, changes.Load(), int32(1))
}

func TestWatcher_PollingFallback(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := writeOverride(t, "initial")

	w, err := New(path,
		WithDebounceDuration(20*time.Millisecond),
		WithPollInterval(25*time.Millisecond),
		WithForcePoll(true),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	assert.True(t, w.IsPolling())

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("modified via polling"), 0o644))

	waitChanged(t, w, 2*time.Second)
}

func TestWatcher_EnvForcePolling(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Setenv("EDGEREC_FORCE_POLL", "1")
	path := writeOverride(t, "initial")

	w, err := New(path, WithPollInterval(25*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.True(t, w.IsPolling())
}

func TestWatcher_FileRemoved(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := writeOverride(t, "initial")

	errs := make(chan error, 4)
	w, err := New(path,
		WithPollInterval(25*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			select {
			case errs <- err:
			default:
			}
		}),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.Remove(path))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrFileRemoved)
	case <-time.After(2 * time.Second):
		t.Fatal("removal not reported")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := writeOverride(t, "initial")

	w, err := New(path)
	require.NoError(t, err)
	assert.False(t, w.IsStarted())

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsStarted())
	assert.ErrorIs(t, w.Start(context.Background()), ErrAlreadyStarted)

	w.Stop()
	assert.False(t, w.IsStarted())
	w.Stop() // double stop is safe

	// A stopped watcher can be started again
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
}

func TestWatcher_ContextCancelEndsWatch(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := writeOverride(t, "initial")

	ctx, cancel := context.WithCancel(context.Background())
	w, err := New(path, WithForcePoll(true), WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))

	cancel()
	w.Stop()
}

func TestWatcher_Path(t *testing.T) {
	path := writeOverride(t, "initial")
	w, err := New(path)
	require.NoError(t, err)

	abs, _ := filepath.Abs(path)
	assert.Equal(t, abs, w.Path())
}
