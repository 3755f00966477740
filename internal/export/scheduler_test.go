package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

// mockDestination records calls to Write.
type mockDestination struct {
	writes atomic.Int64
	last   atomic.Value // []byte
	err    error
}

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return d.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func staticBuild(data string) BuildFunc {
	return func(context.Context) ([]byte, error) { return []byte(data), nil }
}

func TestSchedulerStartStop(t *testing.T) {
	dest := &mockDestination{}
	sched := NewScheduler(staticBuild("ID\n1\n"), []Destination{dest}, 50*time.Millisecond, discardLogger())
	sched.Start(context.Background())

	// Wait for at least the initial export + one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}
	data, ok := dest.last.Load().([]byte)
	if !ok || string(data) != "ID\n1\n" {
		t.Fatalf("last write = %q", data)
	}
}

func TestSchedulerStop_NoStart(t *testing.T) {
	sched := NewScheduler(staticBuild(""), nil, time.Minute, discardLogger())
	// Stop without Start should not panic.
	sched.Stop()
}

func TestSchedulerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sched := NewScheduler(staticBuild("x"), nil, time.Hour, discardLogger())
	sched.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		sched.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not exit on context cancel")
	}
}

func TestRunOnce_AllDestinationsAttempted(t *testing.T) {
	failing := &mockDestination{err: errors.New("disk full")}
	ok := &mockDestination{}
	sched := NewScheduler(staticBuild("x"), []Destination{failing, ok}, time.Second, discardLogger())

	err := sched.RunOnce(context.Background())
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("err = %v", err)
	}
	if failing.writes.Load() != 1 || ok.writes.Load() != 1 {
		t.Errorf("writes = %d, %d", failing.writes.Load(), ok.writes.Load())
	}
}

func TestRunOnce_BuildError(t *testing.T) {
	dest := &mockDestination{}
	build := func(context.Context) ([]byte, error) { return nil, errors.New("HTTP 500") }
	sched := NewScheduler(build, []Destination{dest}, time.Second, discardLogger())

	if err := sched.RunOnce(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if dest.writes.Load() != 0 {
		t.Error("destination written after build failure")
	}
}
