package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmitRunsTask(t *testing.T) {
	s := New(2)
	var ran int32

	v, err := s.Submit(context.Background(), CompileTask{
		Path:  "a.egh",
		Stage: StageParse,
		Run: func(ctx context.Context) (any, error) {
			atomic.AddInt32(&ran, 1)
			return "result", nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "result" {
		t.Errorf("unexpected result: %v", v)
	}
	if ran != 1 {
		t.Errorf("expected task to run exactly once, ran %d times", ran)
	}
}

func TestSubmitRejectsOutOfOrderStage(t *testing.T) {
	s := New(2)
	ctx := context.Background()

	run := func(stage Stage) (any, error) {
		return s.Submit(ctx, CompileTask{
			Path:  "a.egh",
			Stage: stage,
			Run:   func(ctx context.Context) (any, error) { return stage, nil },
		})
	}

	if _, err := run(StageAnalyze); err != nil {
		t.Fatalf("unexpected error running analyze first: %v", err)
	}
	if _, err := run(StageParse); err == nil {
		t.Errorf("expected an error re-running parse after analyze already completed")
	}
}

func TestForgetAllowsReRun(t *testing.T) {
	s := New(2)
	ctx := context.Background()

	run := func(stage Stage) (any, error) {
		return s.Submit(ctx, CompileTask{
			Path:  "a.egh",
			Stage: stage,
			Run:   func(ctx context.Context) (any, error) { return stage, nil },
		})
	}

	if _, err := run(StageAnalyze); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Forget("a.egh")
	if _, err := run(StageLex); err != nil {
		t.Errorf("expected lex to be accepted after Forget, got: %v", err)
	}
}

func TestSubmitAllStopsOnFirstError(t *testing.T) {
	s := New(4)
	boom := context.Canceled

	err := s.SubmitAll(context.Background(), []CompileTask{
		{Path: "a.egh", Stage: StageParse, Run: func(ctx context.Context) (any, error) { return nil, boom }},
		{Path: "b.egh", Stage: StageParse, Run: func(ctx context.Context) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
	})
	if err == nil {
		t.Errorf("expected an error from the failing task")
	}
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	var flushed [][]string
	done := make(chan struct{})

	d := NewDebouncer(func(paths []string) {
		flushed = append(flushed, paths)
		close(done)
	})

	d.Add("a.egh")
	d.Add("b.egh")
	d.Add("a.egh")

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("debouncer never flushed")
	}

	if len(flushed) != 1 {
		t.Fatalf("expected exactly one flush, got %d", len(flushed))
	}
	if len(flushed[0]) != 2 {
		t.Errorf("expected 2 deduplicated paths, got %d: %v", len(flushed[0]), flushed[0])
	}
}
