package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSyntheticTree builds dirs directories of files small source files
// each, enough to keep an analysis busy while a test races it.
func writeSyntheticTree(t *testing.T, root string, dirs, files int) {
	t.Helper()
	for d := 0; d < dirs; d++ {
		dir := filepath.Join(root, fmt.Sprintf("pkg%03d", d))
		require.NoError(t, os.MkdirAll(dir, 0755))
		for f := 0; f < files; f++ {
			path := filepath.Join(dir, fmt.Sprintf("file%04d.go", f))
			require.NoError(t, os.WriteFile(path, []byte("// GynTree: synthetic\npackage p\n"), 0644))
		}
	}
}

func TestRunnerCompletes(t *testing.T) {
	root := t.TempDir()
	writeSyntheticTree(t, root, 3, 5)

	runner := NewRunner(Options{})
	run, err := runner.Start(context.Background(), root)
	require.NoError(t, err)

	res := run.Result()
	assert.Equal(t, StatusCompleted, res.Status)
	require.NotNil(t, res.Tree)
	assert.NoError(t, res.Err)
	assert.Equal(t, 15, res.Stats.Files)
	assert.Equal(t, 15, res.Stats.Comments)
	assert.NotEmpty(t, res.RunID)
}

func TestRunnerCancellationMidRun(t *testing.T) {
	root := t.TempDir()
	// 10,000-file synthetic tree, large enough to cancel mid-run.
	writeSyntheticTree(t, root, 100, 100)

	var (
		handle atomic.Pointer[Run]
		events atomic.Int64
	)
	runner := NewRunner(Options{
		OnProgress: func(Progress) {
			if events.Add(1) == 200 {
				if run := handle.Load(); run != nil {
					run.Cancel()
				}
			}
		},
	})

	run, err := runner.Start(context.Background(), root)
	require.NoError(t, err)
	handle.Store(run)
	// In case the first 200 events fired before the handle was stored.
	if events.Load() >= 200 {
		run.Cancel()
	}

	res := run.Result()
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Nil(t, res.Tree, "a cancelled run yields no partial tree")
	assert.NoError(t, res.Err, "cancellation is not a failure")
	assert.Less(t, events.Load(), int64(10000), "the run must stop well before visiting every node")
	// The counters seen before the stop are kept for history recording.
	assert.Positive(t, res.Stats.Files+res.Stats.Dirs, "a cancelled run keeps its partial counters")
}

func TestRunnerCancelAndReplace(t *testing.T) {
	root := t.TempDir()
	writeSyntheticTree(t, root, 60, 80)

	runner := NewRunner(Options{})
	first, err := runner.Start(context.Background(), root)
	require.NoError(t, err)

	second, err := runner.Start(context.Background(), root)
	require.NoError(t, err, "a new run for the same root replaces the old one")

	firstRes := first.Result()
	assert.Equal(t, StatusCancelled, firstRes.Status)

	secondRes := second.Result()
	assert.Equal(t, StatusCompleted, secondRes.Status)
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestRunnerDistinctRootsRunConcurrently(t *testing.T) {
	rootA, rootB := t.TempDir(), t.TempDir()
	writeSyntheticTree(t, rootA, 2, 4)
	writeSyntheticTree(t, rootB, 2, 4)

	runner := NewRunner(Options{})
	runA, err := runner.Start(context.Background(), rootA)
	require.NoError(t, err)
	runB, err := runner.Start(context.Background(), rootB)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, runA.Result().Status)
	assert.Equal(t, StatusCompleted, runB.Result().Status)
}

func TestRunnerFailsOnMissingRoot(t *testing.T) {
	runner := NewRunner(Options{})
	run, err := runner.Start(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err, "setup errors surface in the result, not at Start")

	res := run.Result()
	assert.Equal(t, StatusFailed, res.Status)
	assert.Error(t, res.Err)
}

func TestRunnerParentContextCancels(t *testing.T) {
	root := t.TempDir()
	writeSyntheticTree(t, root, 50, 100)

	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(Options{})
	run, err := runner.Start(ctx, root)
	require.NoError(t, err)
	cancel()

	assert.Equal(t, StatusCancelled, run.Result().Status)
}
