package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRegister_Validation(t *testing.T) {
	r := New()

	noop := func(context.Context) error { return nil }

	if err := r.Register(Job{Name: "", Interval: time.Second, Run: noop}); err == nil {
		t.Error("expected an error for an unnamed job")
	}
	if err := r.Register(Job{Name: "x", Interval: 0, Run: noop}); err == nil {
		t.Error("expected an error for a zero interval")
	}
	if err := r.Register(Job{Name: "x", Interval: time.Second}); err == nil {
		t.Error("expected an error for a nil run func")
	}

	if err := r.Register(Job{Name: "x", Interval: time.Second, Run: noop}); err != nil {
		t.Fatalf("valid job rejected: %v", err)
	}
	if err := r.Register(Job{Name: "x", Interval: time.Second, Run: noop}); !errors.Is(err, ErrJobExists) {
		t.Errorf("expected ErrJobExists, got %v", err)
	}
}

func TestRunner_RunOnStartAndTicks(t *testing.T) {
	r := New()
	var runs atomic.Int32
	ran := make(chan struct{}, 16)

	err := r.Register(Job{
		Name:       "tick",
		Interval:   10 * time.Millisecond,
		RunOnStart: true,
		Run: func(context.Context) error {
			runs.Add(1)
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := r.Start(context.Background()); !errors.Is(err, ErrAlreadyActive) {
		t.Errorf("expected ErrAlreadyActive on double start, got %v", err)
	}

	// RunOnStart fires immediately, then the ticker takes over.
	for i := 0; i < 3; i++ {
		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("job did not run (run %d)", i)
		}
	}

	if err := r.Stop(time.Second); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if runs.Load() != after {
		t.Error("job kept running after stop")
	}
}

func TestRunner_FailuresAreRetriedNextTick(t *testing.T) {
	r := New()
	ran := make(chan struct{}, 16)

	err := r.Register(Job{
		Name:       "flaky",
		Interval:   10 * time.Millisecond,
		RunOnStart: true,
		Run: func(context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return errors.New("transient")
		},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer r.Stop(time.Second)

	// The error never kills the loop; subsequent ticks still run.
	for i := 0; i < 3; i++ {
		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("failing job stopped running (run %d)", i)
		}
	}
}

func TestRunner_StopIsIdempotent(t *testing.T) {
	r := New()
	if err := r.Stop(time.Second); err != nil {
		t.Fatalf("stop before start should be a no-op, got %v", err)
	}

	if err := r.Register(Job{
		Name:     "quiet",
		Interval: time.Hour,
		Run:      func(context.Context) error { return nil },
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := r.Stop(time.Second); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := r.Stop(time.Second); err != nil {
		t.Fatalf("second stop should be a no-op, got %v", err)
	}
}
