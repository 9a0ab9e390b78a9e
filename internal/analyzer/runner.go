package analyzer

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/treescout/internal/filelock"
)

// ErrRunInFlight is returned when another process is already analyzing the
// same root. Within one process the policy is cancel-and-replace instead.
var ErrRunInFlight = errors.New("analysis already running for this root")

// Status is the outcome of a background analysis run.
type Status int

const (
	// StatusCompleted means the tree was fully analyzed.
	StatusCompleted Status = iota
	// StatusFailed means a run-level setup error aborted the analysis.
	StatusFailed
	// StatusCancelled means the caller stopped the run. Distinct from
	// failure: the partial tree is discarded, not reported as an error;
	// the progress counters seen so far are kept in Result.Stats.
	StatusCancelled
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is the outcome of one run.
type Result struct {
	RunID     string
	Root      string
	Status    Status
	Tree      *Node // nil unless StatusCompleted
	Stats     Stats // partial progress counters for cancelled runs
	Err       error // nil unless StatusFailed
	StartedAt time.Time
	Duration  time.Duration
}

// Runner executes analyses on background goroutines, enforcing at most one
// in-flight run per root: a new Start for a busy root cancels and replaces
// the old run in-process, and is rejected with ErrRunInFlight when the
// root is locked by another process.
type Runner struct {
	opts Options

	mu       sync.Mutex
	inflight map[string]*Run
}

// NewRunner builds a Runner that analyzes with the given options.
func NewRunner(opts Options) *Runner {
	return &Runner{opts: opts, inflight: make(map[string]*Run)}
}

// Start launches a background analysis of root and returns its handle.
// The run stops when ctx is cancelled, Cancel is called on the handle, or
// a newer Start for the same root replaces it.
func (r *Runner) Start(ctx context.Context, root string) (*Run, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	// Replace any in-process run for this root before touching the
	// cross-process lock the old run still holds.
	r.mu.Lock()
	prev := r.inflight[absRoot]
	r.mu.Unlock()
	if prev != nil {
		prev.Cancel()
		<-prev.Done()
	}

	lock, err := filelock.ForRoot(absRoot)
	if err != nil {
		return nil, err
	}
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrRunInFlight
	}

	runCtx, cancel := context.WithCancel(ctx)
	run := &Run{
		id:     uuid.NewString(),
		root:   absRoot,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	r.mu.Lock()
	r.inflight[absRoot] = run
	r.mu.Unlock()

	// Track the latest progress snapshot so a cancelled run can still
	// report how far it got.
	var lastProgress atomic.Pointer[Progress]
	opts := r.opts
	userProgress := opts.OnProgress
	opts.OnProgress = func(p Progress) {
		snap := p
		lastProgress.Store(&snap)
		if userProgress != nil {
			userProgress(p)
		}
	}

	go func() {
		defer close(run.done)
		defer lock.Unlock()
		defer cancel()

		started := time.Now()
		tree, err := New(opts).Analyze(runCtx, absRoot)

		res := Result{
			RunID:     run.id,
			Root:      absRoot,
			StartedAt: started,
			Duration:  time.Since(started),
		}
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			res.Status = StatusCancelled
			if p := lastProgress.Load(); p != nil {
				res.Stats = Stats{
					Dirs:     int(p.Dirs),
					Files:    int(p.Files),
					Comments: int(p.Comments),
					Errors:   int(p.Errors),
				}
			}
		case err != nil:
			res.Status = StatusFailed
			res.Err = err
		default:
			res.Status = StatusCompleted
			res.Tree = tree
			res.Stats = tree.CollectStats()
		}
		run.result = res

		r.mu.Lock()
		if r.inflight[absRoot] == run {
			delete(r.inflight, absRoot)
		}
		r.mu.Unlock()
	}()

	return run, nil
}

// Run is the handle of one background analysis.
type Run struct {
	id     string
	root   string
	cancel context.CancelFunc
	done   chan struct{}
	result Result // written once before done is closed
}

// ID returns the run identifier.
func (run *Run) ID() string { return run.id }

// Root returns the normalized root being analyzed.
func (run *Run) Root() string { return run.root }

// Done is closed when the run has finished, for select-based waiting.
func (run *Run) Done() <-chan struct{} { return run.done }

// Cancel requests cooperative cancellation. The run stops at the next
// directory-entry or file-read boundary.
func (run *Run) Cancel() { run.cancel() }

// Result blocks until the run finishes and returns its outcome.
func (run *Run) Result() Result {
	<-run.done
	return run.result
}
