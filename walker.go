package ctrlcv

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	gitignore "github.com/monochromegane/go-gitignore"
)

// Status reports why a [WalkFunc] was invoked, or why a walk ended.
type Status int

const (
	// StatusQueuing is delivered once per entry before it is dispatched to
	// the pool in a parallel walk, so the callback can cheaply filter
	// entries before any goroutine scheduling happens. Never delivered
	// during a sequential [DirWalker.Walk].
	StatusQueuing Status = iota
	// StatusOpened is delivered once an entry has been enumerated and is
	// ready for processing.
	StatusOpened
	// StatusStopped is returned by Walk/WalkParallel when a callback
	// returned ActionStop.
	StatusStopped
	// StatusAborted is returned when a callback returned ActionAbort,
	// anywhere in the tree.
	StatusAborted
	// StatusFailed is delivered to the parent directory's callback when a
	// recursive sub-walk could not enumerate its directory, and is
	// returned by Walk itself when the root directory can't be opened.
	StatusFailed
	// StatusDone is returned when a walk runs to completion.
	StatusDone
)

// Action is a [WalkFunc]'s instruction to the walker.
type Action int

const (
	// ActionContinue proceeds normally: recurse into the entry if it is a
	// directory and [WithRecursive] is set.
	ActionContinue Action = iota
	// ActionSkip skips this entry (and, if it is a directory, its subtree)
	// without recursing, and continues with its siblings.
	ActionSkip
	// ActionStop ends the current directory's enumeration early, without
	// visiting its remaining siblings. Ancestors are unaffected.
	ActionStop
	// ActionAbort ends the entire walk immediately, propagating up through
	// every recursion level.
	ActionAbort
)

// WalkFunc is called once per directory entry with StatusOpened (preceded,
// in a parallel walk, by one StatusQueuing call for that entry), and once
// more per directory that failed to enumerate (with StatusFailed and the
// directory's own File).
type WalkFunc func(status Status, file File) Action

// WalkerOption configures a [DirWalker] at construction time.
type WalkerOption func(*walkerConfig)

type walkerConfig struct {
	recursive        bool
	includeDotDir    bool
	respectGitignore bool
	ignoreNames      map[string]struct{}
}

// WithRecursive enables descending into subdirectories.
func WithRecursive(recursive bool) WalkerOption {
	return func(c *walkerConfig) { c.recursive = recursive }
}

// WithIncludeDotDir controls whether "." and ".." entries are surfaced to
// the walk callback. Excluded by default.
//
// Neither enumerator backend in this package returns "." or "..":
// os.ReadDir never does, and the Linux fast path drops them in
// unix.ParseDirent. Setting this flag to true therefore surfaces no extra
// entries. It does not hide or reveal dotfiles in general either; there is
// no "hidden file" concept here beyond the two literal self/parent entries.
func WithIncludeDotDir(include bool) WalkerOption {
	return func(c *walkerConfig) { c.includeDotDir = include }
}

// WithRespectGitignore enables skipping entries matched by a .gitignore
// file found at the walk's root directory.
//
// Matching is resolved once per call to Walk/WalkParallel against a
// .gitignore in root, via github.com/monochromegane/go-gitignore.
func WithRespectGitignore(respect bool) WalkerOption {
	return func(c *walkerConfig) { c.respectGitignore = respect }
}

// WithIgnoreNames excludes entries whose leaf name exactly matches one of
// names, regardless of where they occur in the tree.
func WithIgnoreNames(names ...string) WalkerOption {
	return func(c *walkerConfig) {
		if c.ignoreNames == nil {
			c.ignoreNames = make(map[string]struct{}, len(names))
		}
		for _, n := range names {
			c.ignoreNames[n] = struct{}{}
		}
	}
}

// DirWalker enumerates a directory tree, never following symlinks (they are
// delivered as [KindOther] entries and not descended into), and delivers each
// entry to a [WalkFunc] — either synchronously ([DirWalker.Walk])
// or fanned out across a [ThreadPool] ([DirWalker.WalkParallel]).
type DirWalker struct {
	cfg walkerConfig
}

// NewDirWalker constructs a DirWalker. By default it is non-recursive,
// excludes the "." and ".." entries (other dot-prefixed names are kept), and
// ignores nothing else.
func NewDirWalker(opts ...WalkerOption) *DirWalker {
	w := &DirWalker{}
	for _, opt := range opts {
		opt(&w.cfg)
	}
	return w
}

func (w *DirWalker) skip(f File) bool {
	if !w.cfg.includeDotDir && (f.Name == "." || f.Name == "..") {
		return true
	}
	if _, ignored := w.cfg.ignoreNames[f.Name]; ignored {
		return true
	}
	return false
}

// Walk enumerates root synchronously, depth-first, calling action once per
// entry with StatusOpened. Returns StatusFailed if root itself could not be
// enumerated; StatusAborted if any callback returned ActionAbort anywhere
// in the tree; StatusStopped if the top-level directory's enumeration was
// cut short by ActionStop; StatusDone otherwise.
func (w *DirWalker) Walk(root string, action WalkFunc) Status {
	matcher := w.resolveGitignore(root)
	return w.walk(root, root, matcher, action)
}

func (w *DirWalker) walk(root, dir string, matcher gitignore.IgnoreMatcher, action WalkFunc) Status {
	entries, err := enumerateDir(dir)
	if err != nil {
		return StatusFailed
	}

	for _, f := range entries {
		if w.skip(f) || matchesGitignore(matcher, root, f) {
			continue
		}

		switch action(StatusOpened, f) {
		case ActionSkip:
			continue
		case ActionStop:
			return StatusStopped
		case ActionAbort:
			return StatusAborted
		}

		if f.IsDir() && w.cfg.recursive {
			switch sub := w.walk(root, filepath.Join(dir, f.Name), matcher, action); sub {
			case StatusAborted:
				return StatusAborted
			case StatusFailed:
				if action(StatusFailed, f) == ActionAbort {
					return StatusAborted
				}
			}
		}
	}
	return StatusDone
}

// WalkParallel enumerates root like Walk, but dispatches each entry's
// StatusOpened callback as a [Task] on pool instead of calling it inline.
//
// Filtering still happens synchronously before dispatch: action is called
// with StatusQueuing first, and ActionAbort there short-circuits without
// ever touching the pool. An abort signal (atomic, shared across every
// recursion level and every dispatched task) makes ActionAbort from any
// task or any level stop the whole walk as soon as the other goroutines
// notice it. WalkParallel blocks until every task it dispatched has run.
func (w *DirWalker) WalkParallel(root string, pool *ThreadPool, action WalkFunc) Status {
	matcher := w.resolveGitignore(root)
	abort := &atomic.Bool{}
	var wg sync.WaitGroup

	status := w.walkParallel(root, root, matcher, pool, action, abort, &wg)
	wg.Wait()

	if abort.Load() {
		return StatusAborted
	}
	return status
}

func (w *DirWalker) walkParallel(
	root, dir string,
	matcher gitignore.IgnoreMatcher,
	pool *ThreadPool,
	action WalkFunc,
	abort *atomic.Bool,
	wg *sync.WaitGroup,
) Status {
	if abort.Load() {
		return StatusAborted
	}

	entries, err := enumerateDir(dir)
	if err != nil {
		return StatusFailed
	}

	for _, f := range entries {
		if abort.Load() {
			return StatusAborted
		}
		if w.skip(f) || matchesGitignore(matcher, root, f) {
			continue
		}

		switch action(StatusQueuing, f) {
		case ActionSkip:
			continue
		case ActionStop:
			return StatusStopped
		case ActionAbort:
			abort.Store(true)
			return StatusAborted
		}

		file := f
		wg.Add(1)
		if err := pool.Enqueue(func() {
			defer wg.Done()
			if abort.Load() {
				return
			}
			switch action(StatusOpened, file) {
			case ActionAbort:
				abort.Store(true)
			case ActionContinue:
				if file.IsDir() && w.cfg.recursive {
					switch sub := w.walkParallel(root, filepath.Join(dir, file.Name), matcher, pool, action, abort, wg); sub {
					case StatusFailed:
						if action(StatusFailed, file) == ActionAbort {
							abort.Store(true)
						}
					}
				}
			}
		}); err != nil {
			wg.Done()
			abort.Store(true)
		}
	}
	return StatusDone
}
