package ctrlcv

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func newWriter(t *testing.T, content string) *SnapshotWriter {
	t.Helper()
	path := writeTempFile(t, content)
	w, err := NewSnapshotWriterFromPath(path)
	require.NoError(t, err)
	return w
}

func TestSnapshotWriterAppendAndInsert(t *testing.T) {
	w := newWriter(t, "abc")
	w.Append([]byte("def")).Insert(0, []byte("00"))
	require.NoError(t, w.Err())
	require.Equal(t, []byte("00abcdef"), w.Snapshot().Content)
}

func TestSnapshotWriterWriteAtOverwritesSameWidth(t *testing.T) {
	w := newWriter(t, "hello world")
	w.WriteAt(6, []byte("there"))
	require.NoError(t, w.Err())
	require.Equal(t, []byte("hello there"), w.Snapshot().Content)
}

func TestSnapshotWriterDeleteCont(t *testing.T) {
	w := newWriter(t, "hello world")
	w.DeleteCont(5, 11)
	require.NoError(t, w.Err())
	require.Equal(t, []byte("hello"), w.Snapshot().Content)
}

func TestSnapshotWriterInsertRowAndDeleteRow(t *testing.T) {
	w := newWriter(t, "x\n")
	w.InsertRow(0, []byte("hdr"))
	require.NoError(t, w.Err())
	require.Equal(t, []byte("hdr\nx\n"), w.Snapshot().Content)

	w.DeleteRow(0)
	require.NoError(t, w.Err())
	require.Equal(t, []byte("x\n"), w.Snapshot().Content)
}

func TestSnapshotWriterReplaceAllGlobal(t *testing.T) {
	w := newWriter(t, "foo bar foo")
	w.ReplaceAll("foo", "qux")
	require.NoError(t, w.Err())
	require.Equal(t, []byte("qux bar qux"), w.Snapshot().Content)
}

func TestSnapshotWriterReplaceNthOccurrence(t *testing.T) {
	w := newWriter(t, "foo bar foo")
	w.Replace("foo", "qux", 1)
	require.NoError(t, w.Err())
	require.Equal(t, []byte("foo bar qux"), w.Snapshot().Content)
}

func TestSnapshotWriterReplaceNegativeIndexWraps(t *testing.T) {
	w := newWriter(t, "foo bar foo")
	w.Replace("foo", "qux", -1)
	require.NoError(t, w.Err())
	require.Equal(t, []byte("foo bar qux"), w.Snapshot().Content)
}

func TestSnapshotWriterReplaceCapturesTemplate(t *testing.T) {
	w := newWriter(t, "name=alice")
	w.ReplaceAll(`name=(\w+)`, "name=$1!")
	require.NoError(t, w.Err())
	require.Equal(t, []byte("name=alice!"), w.Snapshot().Content)
}

func TestSnapshotWriterCopyFailsOnMissingSource(t *testing.T) {
	w := newWriter(t, "irrelevant")
	w.Copy(filepath.Join(t.TempDir(), "nope.txt"))
	require.ErrorIs(t, w.Err(), ErrSourceMissing)
}

func TestSnapshotWriterErrorsAreSticky(t *testing.T) {
	w := newWriter(t, "abc")
	w.Insert(-1, []byte("x")).Append([]byte("y"))
	require.Error(t, w.Err())
	// The failed Insert should have made Append a no-op.
	require.Equal(t, []byte("abc"), w.Snapshot().Content)
}

func TestSnapshotWriterCommitWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("before"), 0o644))

	w, err := NewSnapshotWriterFromPath(path)
	require.NoError(t, err)
	w.Write([]byte("after"))
	require.True(t, w.Commit())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "after", string(got))
}

func TestSnapshotWriterBackupFallsBackOnCollision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))
	require.NoError(t, os.WriteFile(path+".bak", []byte("stale"), 0o644))

	w, err := NewSnapshotWriterFromPath(path)
	require.NoError(t, err)
	require.True(t, w.Backup(".bak"))

	fallback := path + ".(" + strconv.FormatInt(w.lastModified, 10) + ")" + ".bak"
	got, err := os.ReadFile(fallback)
	require.NoError(t, err)
	require.Equal(t, "v1", string(got))

	stale, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	require.Equal(t, "stale", string(stale))
}
