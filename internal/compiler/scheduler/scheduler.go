// Package scheduler runs compile stages across many files concurrently,
// bounded by a worker pool, while guaranteeing that a single file's
// stages (lex -> parse -> analyze -> generate) never run out of order or
// overlap with each other, and that two callers asking for the same
// (path, stage) result at once share one execution instead of
// duplicating work.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Stage names the ordered compile stages a CompileTask belongs to. Tasks
// for the same path must be submitted in this order; the Scheduler
// enforces it per path via a stage-sequence lock rather than a global
// barrier, so files proceed through the pipeline independently.
type Stage string

const (
	StageLex      Stage = "lex"
	StageParse    Stage = "parse"
	StageAnalyze  Stage = "analyze"
	StageGenerate Stage = "generate"
)

var stageOrder = map[Stage]int{
	StageLex:      0,
	StageParse:    1,
	StageAnalyze:  2,
	StageGenerate: 3,
}

// CompileTask is one unit of scheduled work: run Stage for Path.
type CompileTask struct {
	Path  string
	Stage Stage
	Run   func(ctx context.Context) (any, error)
}

func (t CompileTask) key() string {
	return t.Path + "#" + string(t.Stage)
}

// fileState tracks the last stage completed for one path, so a stage
// submitted out of order is rejected rather than silently racing ahead
// of a stage it depends on.
type fileState struct {
	mu         sync.Mutex
	lastStage  int
	hasRunOnce bool
}

// Scheduler bounds concurrent stage execution with a worker pool sized
// at construction, deduplicates concurrent requests for the same
// (path, stage) via singleflight, and cancels any not-yet-started stage
// when its context is canceled.
type Scheduler struct {
	sem   chan struct{}
	sf    singleflight.Group
	mu    sync.Mutex
	files map[string]*fileState
}

func New(workers int) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{
		sem:   make(chan struct{}, workers),
		files: make(map[string]*fileState),
	}
}

func (s *Scheduler) stateFor(path string) *fileState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.files[path]
	if !ok {
		st = &fileState{lastStage: -1}
		s.files[path] = st
	}
	return st
}

// Submit runs task, acquiring a worker-pool slot and enforcing that
// task.Stage is not run before the preceding stage for the same path.
// Concurrent Submit calls for the same (path, stage) share a single
// execution; all callers receive the same result.
func (s *Scheduler) Submit(ctx context.Context, task CompileTask) (any, error) {
	st := s.stateFor(task.Path)

	v, err, _ := s.sf.Do(task.key(), func() (any, error) {
		st.mu.Lock()
		order, known := stageOrder[task.Stage]
		if known && st.hasRunOnce && order <= st.lastStage {
			st.mu.Unlock()
			return nil, fmt.Errorf("scheduler: stage %q for %q already completed or superseded", task.Stage, task.Path)
		}
		st.mu.Unlock()

		select {
		case s.sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		defer func() { <-s.sem }()

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := task.Run(ctx)
		if err != nil {
			return nil, err
		}

		st.mu.Lock()
		if known {
			st.lastStage = order
			st.hasRunOnce = true
		}
		st.mu.Unlock()

		return result, nil
	})

	return v, err
}

// SubmitAll runs every task concurrently (still bounded by the worker
// pool) and returns on the first error, canceling the remaining tasks'
// context.
func (s *Scheduler) SubmitAll(ctx context.Context, tasks []CompileTask) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			_, err := s.Submit(gctx, task)
			return err
		})
	}
	return g.Wait()
}

// Forget drops a path's stage-sequence state, so a subsequent Submit for
// an earlier stage (e.g. after the file changed and must be recompiled
// from lex onward) is accepted instead of rejected as out of order.
func (s *Scheduler) Forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
}
