package ctrlcv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBufferedReaderLoadsWholeFile(t *testing.T) {
	path := writeTempFile(t, "line one\nline two\nline three")
	r := NewBufferedReaderFromPath(path)
	require.True(t, r.IsValid())
	require.Equal(t, []byte("line one\nline two\nline three"), []byte(r.Sync()))
}

func TestBufferedReaderDirectoryIsInvalid(t *testing.T) {
	r := NewBufferedReaderFromPath(t.TempDir())
	require.False(t, r.IsValid())
}

func TestBufferedReaderMissingPathIsInvalid(t *testing.T) {
	r := NewBufferedReaderFromPath(filepath.Join(t.TempDir(), "nope"))
	require.False(t, r.IsValid())
}

func TestBufferedReaderZeroSizeFile(t *testing.T) {
	path := writeTempFile(t, "")
	r := NewBufferedReaderFromPath(path)
	require.True(t, r.IsValid())
	require.Equal(t, []byte{}, []byte(r.Sync()))
}

func TestBufferedReaderGetLoadsUncoveredRange(t *testing.T) {
	path := writeTempFile(t, "0123456789")
	r := NewBufferedReaderFromPath(path)

	got := r.Get(3, 7)
	require.Equal(t, []byte("3456"), got)
}

func TestBufferedReaderGetPointFromByte(t *testing.T) {
	path := writeTempFile(t, "ab\ncd\nef")
	r := NewBufferedReaderFromPath(path)

	cases := []struct {
		offset int64
		want   Point
	}{
		{0, Point{Row: 0, Col: 0}},
		{2, Point{Row: 0, Col: 2}},
		{3, Point{Row: 1, Col: 0}},
		{5, Point{Row: 1, Col: 2}},
		{6, Point{Row: 2, Col: 0}},
		{8, Point{Row: 2, Col: 2}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, r.GetPointFromByte(c.offset), "offset %d", c.offset)
	}
}

func TestBufferedReaderSnapshotRoundTrip(t *testing.T) {
	path := writeTempFile(t, "hello world")
	r := NewBufferedReaderFromPath(path)

	snap, err := r.Snapshot()
	require.NoError(t, err)
	require.Equal(t, []byte("hello world"), snap.Content)
	require.False(t, snap.Dirty)

	sr := NewSnapshotReader(snap)
	require.True(t, sr.IsValid())
	require.Equal(t, []byte("hello world"), []byte(sr.Sync()))
}

func TestBufferedReaderResetHonorsReadReverse(t *testing.T) {
	path := writeTempFile(t, "0123456789")

	fwd := NewBufferedReaderFromPath(path)
	fwd.Reset()
	require.EqualValues(t, 0, fwd.Pos())

	rev := NewBufferedReaderFromPath(path, WithReadReverse(true))
	rev.Reset()
	require.EqualValues(t, 10, rev.Pos())
}
