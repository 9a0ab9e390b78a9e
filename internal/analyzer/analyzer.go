package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/harrison/treescout/internal/comment"
	"github.com/harrison/treescout/internal/exclusion"
)

// DefaultMaxFileSize is the read guard applied when Options.MaxFileSize is
// unset. Files over the guard are listed but never parsed.
const DefaultMaxFileSize int64 = 1 << 20 // 1 MiB

// Progress carries running counters, delivered at node granularity. Counts
// are best-effort and may trail slightly behind mid-cancellation.
type Progress struct {
	Dirs     int64
	Files    int64
	Comments int64
	Errors   int64
}

// Options configures an Analyzer.
type Options struct {
	// Rules is consulted at every node. Treated as read-only for the
	// duration of a run. Nil means nothing is excluded.
	Rules *exclusion.RuleSet
	// Parser extracts purpose comments from included files. Nil gets a
	// parser over the default registry and tag.
	Parser *comment.Parser
	// MaxFileSize bounds individual file reads; <= 0 uses
	// DefaultMaxFileSize.
	MaxFileSize int64
	// FollowSymlinks descends into symlinked directories, with an
	// ancestor cycle check. When false, symlinks are recorded as leaves.
	FollowSymlinks bool
	// Workers bounds concurrent fan-out over sibling subdirectories;
	// <= 1 keeps the traversal sequential. Output order is canonical
	// either way.
	Workers int
	// OnProgress, when set, is invoked per visited node with running
	// counts. With Workers > 1 it may be called from multiple
	// goroutines and must be safe for that.
	OnProgress func(Progress)
}

// Analyzer performs synchronous analysis runs. See Runner for background
// execution.
type Analyzer struct {
	opts Options
}

// New builds an Analyzer, filling unset options with defaults.
func New(opts Options) *Analyzer {
	if opts.Rules == nil {
		opts.Rules = exclusion.NewRuleSet()
	}
	if opts.Parser == nil {
		opts.Parser = comment.NewParser(nil, "")
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	return &Analyzer{opts: opts}
}

// Analyze walks the tree rooted at root and returns the result tree.
//
// Only root-level failures (missing root, root not a directory) abort the
// run; per-node failures are recorded on their nodes and traversal
// continues. Cancellation of ctx stops the run at the next directory-entry
// or file-read boundary and returns the context error.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*Node, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", absRoot)
	}
	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	r := &run{opts: a.opts}
	if a.opts.Workers > 1 {
		r.sem = make(chan struct{}, a.opts.Workers)
	}
	return r.walkDir(ctx, absRoot, ".", filepath.Base(absRoot), []string{resolved})
}

// run is the per-analysis state: option snapshot plus shared counters.
type run struct {
	opts Options
	sem  chan struct{} // nil when sequential

	dirs     atomic.Int64
	files    atomic.Int64
	comments atomic.Int64
	errors   atomic.Int64
}

func (r *run) report() {
	if r.opts.OnProgress == nil {
		return
	}
	r.opts.OnProgress(Progress{
		Dirs:     r.dirs.Load(),
		Files:    r.files.Load(),
		Comments: r.comments.Load(),
		Errors:   r.errors.Load(),
	})
}

// walkDir analyzes one directory. abs is the lexical path used for IO, rel
// the root-relative path recorded on nodes, and stack the resolved paths
// of the directory and all its ancestors, for symlink cycle checks.
// The only error it returns is ctx cancellation.
func (r *run) walkDir(ctx context.Context, abs, rel, name string, stack []string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	node := &Node{Name: name, Path: rel, Kind: KindDir}
	entries, err := os.ReadDir(abs)
	if err != nil {
		// The directory itself was listed by its parent but cannot be
		// read: surface the failure on the node and keep going.
		node.Err = err.Error()
		r.errors.Add(1)
		r.report()
		return node, nil
	}
	r.dirs.Add(1)
	r.report()

	// os.ReadDir returns entries sorted by name. Files are emitted before
	// subdirectories so output is stable; symlinks travel with the file
	// group regardless of what they resolve to.
	var files, subdirs []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e)
		} else {
			files = append(files, e)
		}
	}

	for _, e := range files {
		child, err := r.visitEntry(ctx, abs, rel, e, stack)
		if err != nil {
			return nil, err
		}
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}

	children := make([]*Node, len(subdirs))
	var (
		wg       sync.WaitGroup
		walkErrs = make([]error, len(subdirs))
	)
	for i, e := range subdirs {
		childAbs := filepath.Join(abs, e.Name())
		childRel := joinRel(rel, e.Name())
		if r.opts.Rules.IsExcluded(childRel, exclusion.TargetDir) {
			// Pruning rule: excluded directories stay in the tree as
			// leaves but are never descended into.
			children[i] = &Node{Name: e.Name(), Path: childRel, Kind: KindDir, Excluded: true}
			r.report()
			continue
		}
		childStack := append(append([]string{}, stack...), filepath.Join(stack[len(stack)-1], e.Name()))

		if r.sem == nil {
			child, err := r.walkDir(ctx, childAbs, childRel, e.Name(), childStack)
			if err != nil {
				return nil, err
			}
			children[i] = child
			continue
		}

		// Bounded fan-out: take a worker slot if one is free, otherwise
		// recurse inline so a full pool can never deadlock on itself.
		select {
		case r.sem <- struct{}{}:
			wg.Add(1)
			go func(i int, abs, rel, name string, stack []string) {
				defer wg.Done()
				defer func() { <-r.sem }()
				children[i], walkErrs[i] = r.walkDir(ctx, abs, rel, name, stack)
			}(i, childAbs, childRel, e.Name(), childStack)
		default:
			children[i], walkErrs[i] = r.walkDir(ctx, childAbs, childRel, e.Name(), childStack)
		}
	}
	wg.Wait()
	for _, err := range walkErrs {
		if err != nil {
			return nil, err
		}
	}
	// Workers may have finished out of order; the indexed slice restores
	// the canonical ordering.
	for _, c := range children {
		if c != nil {
			node.Children = append(node.Children, c)
		}
	}
	return node, nil
}

// visitEntry analyzes a non-directory entry (regular file, symlink, or
// special file). The only error it returns is ctx cancellation.
func (r *run) visitEntry(ctx context.Context, parentAbs, parentRel string, e os.DirEntry, stack []string) (*Node, error) {
	childAbs := filepath.Join(parentAbs, e.Name())
	childRel := joinRel(parentRel, e.Name())

	if e.Type()&os.ModeSymlink != 0 {
		return r.visitSymlink(ctx, childAbs, childRel, e.Name(), stack)
	}

	node := &Node{Name: e.Name(), Path: childRel, Kind: KindFile}
	if r.opts.Rules.IsExcluded(childRel, exclusion.TargetFile) {
		// Excluded files are never opened.
		node.Excluded = true
		r.report()
		return node, nil
	}
	if err := r.readFile(ctx, childAbs, node); err != nil {
		return nil, err
	}
	return node, nil
}

// readFile reads and parses one included file, honoring the size guard and
// recording per-file failures on the node.
func (r *run) readFile(ctx context.Context, abs string, node *Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		node.Err = err.Error()
		r.errors.Add(1)
		r.report()
		return nil
	}
	if info.Size() > r.opts.MaxFileSize {
		node.TooLarge = true
		r.files.Add(1)
		r.report()
		return nil
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		node.Err = err.Error()
		r.errors.Add(1)
		r.report()
		return nil
	}
	r.files.Add(1)
	if looksLikeText(content) {
		comments := r.opts.Parser.Extract(content, filepath.Ext(node.Name))
		for i := range comments {
			comments[i].Path = node.Path
		}
		node.Comments = comments
		r.comments.Add(int64(len(comments)))
	}
	r.report()
	return nil
}

// visitSymlink records a symlink leaf, or descends into its target when
// following is enabled and the target is not an ancestor of the current
// position.
func (r *run) visitSymlink(ctx context.Context, abs, rel, name string, stack []string) (*Node, error) {
	if !r.opts.FollowSymlinks {
		node := &Node{Name: name, Path: rel, Kind: KindSymlink}
		node.Excluded = r.opts.Rules.IsExcluded(rel, exclusion.TargetFile)
		r.report()
		return node, nil
	}

	target, err := filepath.EvalSymlinks(abs)
	if err != nil {
		node := &Node{Name: name, Path: rel, Kind: KindSymlink, Err: err.Error()}
		r.errors.Add(1)
		r.report()
		return node, nil
	}
	info, err := os.Stat(target)
	if err != nil {
		node := &Node{Name: name, Path: rel, Kind: KindSymlink, Err: err.Error()}
		r.errors.Add(1)
		r.report()
		return node, nil
	}

	if info.IsDir() {
		// Never descend into a target that contains a directory already
		// on the traversal stack: that is the cycle that would recurse
		// forever.
		for _, ancestor := range stack {
			if pathContains(target, ancestor) {
				node := &Node{Name: name, Path: rel, Kind: KindSymlink, Cycle: true}
				r.report()
				return node, nil
			}
		}
		if r.opts.Rules.IsExcluded(rel, exclusion.TargetDir) {
			node := &Node{Name: name, Path: rel, Kind: KindDir, Excluded: true}
			r.report()
			return node, nil
		}
		childStack := append(append([]string{}, stack...), target)
		return r.walkDir(ctx, abs, rel, name, childStack)
	}

	node := &Node{Name: name, Path: rel, Kind: KindFile}
	if r.opts.Rules.IsExcluded(rel, exclusion.TargetFile) {
		node.Excluded = true
		r.report()
		return node, nil
	}
	if err := r.readFile(ctx, abs, node); err != nil {
		return nil, err
	}
	return node, nil
}

// pathContains reports whether sub equals dir or lies underneath it.
func pathContains(dir, sub string) bool {
	if dir == sub {
		return true
	}
	return strings.HasPrefix(sub, dir+string(filepath.Separator))
}

// joinRel extends a root-relative path with one more segment, keeping the
// normalized forward-slash form rules are matched against.
func joinRel(rel, name string) string {
	if rel == "." || rel == "" {
		return name
	}
	return rel + "/" + name
}
