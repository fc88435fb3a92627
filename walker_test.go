package ctrlcv

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), []byte("h"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "subsub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "subsub", "c.txt"), []byte("c"), 0o644))
	return root
}

func TestDirWalkerNonRecursiveListsTopLevel(t *testing.T) {
	root := buildTree(t)
	w := NewDirWalker()

	var names []string
	status := w.Walk(root, func(s Status, f File) Action {
		names = append(names, f.Name)
		return ActionContinue
	})

	require.Equal(t, StatusDone, status)
	sort.Strings(names)
	// ".hidden" is an ordinary entry, not a "." or ".." self/parent entry,
	// so WithIncludeDotDir (false by default here) does not affect it —
	// see WithIncludeDotDir's doc comment.
	require.Equal(t, []string{".hidden", "a.txt", "sub"}, names)
}

func TestDirWalkerRecursiveVisitsEverything(t *testing.T) {
	root := buildTree(t)
	w := NewDirWalker(WithRecursive(true))

	var names []string
	status := w.Walk(root, func(s Status, f File) Action {
		names = append(names, f.Name)
		return ActionContinue
	})

	require.Equal(t, StatusDone, status)
	sort.Strings(names)
	require.Equal(t, []string{".hidden", "a.txt", "b.txt", "c.txt", "sub", "subsub"}, names)
}

func TestDirWalkerIncludeDotDirHasNoEffectOnOrdinaryDotfiles(t *testing.T) {
	root := buildTree(t)
	w := NewDirWalker(WithIncludeDotDir(true))

	var names []string
	w.Walk(root, func(s Status, f File) Action {
		names = append(names, f.Name)
		return ActionContinue
	})

	sort.Strings(names)
	require.Equal(t, []string{".hidden", "a.txt", "sub"}, names)
}

func TestDirWalkerAbortStopsEverything(t *testing.T) {
	root := buildTree(t)
	w := NewDirWalker(WithRecursive(true))

	var visited int
	status := w.Walk(root, func(s Status, f File) Action {
		visited++
		return ActionAbort
	})

	require.Equal(t, StatusAborted, status)
	require.Equal(t, 1, visited)
}

func TestDirWalkerIgnoreNames(t *testing.T) {
	root := buildTree(t)
	w := NewDirWalker(WithRecursive(true), WithIgnoreNames("sub"))

	var names []string
	w.Walk(root, func(s Status, f File) Action {
		names = append(names, f.Name)
		return ActionContinue
	})

	sort.Strings(names)
	require.Equal(t, []string{".hidden", "a.txt"}, names)
}

func TestDirWalkerWalkParallelVisitsEverything(t *testing.T) {
	root := buildTree(t)
	w := NewDirWalker(WithRecursive(true))
	pool := NewThreadPool(4)
	defer pool.Stop()

	var mu sync.Mutex
	var names []string
	status := w.WalkParallel(root, pool, func(s Status, f File) Action {
		if s != StatusOpened {
			return ActionContinue
		}
		mu.Lock()
		names = append(names, f.Name)
		mu.Unlock()
		return ActionContinue
	})

	require.Equal(t, StatusDone, status)
	sort.Strings(names)
	require.Equal(t, []string{".hidden", "a.txt", "b.txt", "c.txt", "sub", "subsub"}, names)
}

func TestDirWalkerWalkParallelAbort(t *testing.T) {
	root := buildTree(t)
	w := NewDirWalker(WithRecursive(true))
	pool := NewThreadPool(4)
	defer pool.Stop()

	status := w.WalkParallel(root, pool, func(s Status, f File) Action {
		if s == StatusQueuing && f.Name == "sub" {
			return ActionAbort
		}
		return ActionContinue
	})

	require.Equal(t, StatusAborted, status)
}

func TestDirWalkerFailedDirectoryNotifiesParent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "locked"), 0o000))
	defer os.Chmod(filepath.Join(root, "locked"), 0o755)

	w := NewDirWalker(WithRecursive(true))
	var sawFailed bool
	w.Walk(root, func(s Status, f File) Action {
		if s == StatusFailed {
			sawFailed = true
		}
		return ActionContinue
	})

	// Running as root (common in CI containers) bypasses the permission
	// bit, so only assert when the environment actually enforced it.
	if os.Geteuid() != 0 {
		require.True(t, sawFailed)
	}
}
