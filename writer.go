package ctrlcv

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/google/uuid"
)

// Snapshot is an immutable, value-typed copy of a file's bytes at a point
// in time.
type Snapshot struct {
	File         File
	Content      []byte
	LastModified int64 // nanoseconds since the Unix epoch
	Dirty        bool
}

// SnapshotWriter accumulates edits against an in-memory [Snapshot] and
// commits them back to disk durably, with an optional backup.
//
// Every mutating method returns the writer itself so calls can be chained;
// errors are sticky — once a method sets an error, subsequent chained edit
// calls are no-ops; [SnapshotWriter.Err] reports the error and does not
// clear it. This mirrors the
// original source's FileWriter&-returning methods (which used C++
// exceptions for the same failures) in an idiomatic Go shape.
type SnapshotWriter struct {
	file         File
	content      []byte
	lastModified int64
	dirty        bool
	rowOffsets   []int64

	// CommitID is a per-writer correlation ID, set at construction and
	// attached to Commit's log lines. Backup and Flush log without it.
	CommitID string

	diff []TransformChange
	err  error
}

// Diff returns the [TransformChange] records staged by [RuleSet.Apply]
// calls against this writer since construction, in application order.
func (w *SnapshotWriter) Diff() []TransformChange {
	return append([]TransformChange(nil), w.diff...)
}

// NewSnapshotWriter constructs a writer over snap, taking ownership of its
// content by copy.
func NewSnapshotWriter(snap Snapshot) *SnapshotWriter {
	w := &SnapshotWriter{
		file:         snap.File,
		content:      append([]byte(nil), snap.Content...),
		lastModified: snap.LastModified,
		dirty:        snap.Dirty,
		CommitID:     uuid.NewString(),
	}
	w.rebuildRowOffsets()
	return w
}

// NewSnapshotWriterFromPath opens a reader against path, snapshots it, and
// returns a writer retaining that reader's row-offset index.
func NewSnapshotWriterFromPath(path string) (*SnapshotWriter, error) {
	r := NewBufferedReaderFromPath(path)
	if !r.IsValid() {
		return nil, wrap(ErrReaderInvalid, "open %s", path)
	}
	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}
	return NewSnapshotWriter(snap), nil
}

// Err returns the first sticky error recorded by a chained call, if any.
func (w *SnapshotWriter) Err() error { return w.err }

// File returns the writer's target File record.
func (w *SnapshotWriter) File() File { return w.file }

// Snapshot returns the writer's current content as an immutable Snapshot.
func (w *SnapshotWriter) Snapshot() Snapshot {
	return Snapshot{
		File:         w.file,
		Content:      append([]byte(nil), w.content...),
		LastModified: w.lastModified,
		Dirty:        w.dirty,
	}
}

func (w *SnapshotWriter) rebuildRowOffsets() {
	offsets := make([]int64, 1, len(w.content)/48+1)
	offsets[0] = 0
	for i, b := range w.content {
		if b == '\n' {
			offsets = append(offsets, int64(i)+1)
		}
	}
	w.rowOffsets = offsets
}

// modifySnap refreshes dirty/lastModified/size/rowOffsets after a mutation.
func (w *SnapshotWriter) modifySnap() {
	w.dirty = true
	w.lastModified = time.Now().UnixNano()
	w.file.Size = int64(len(w.content))
	w.rebuildRowOffsets()
}

func (w *SnapshotWriter) fail(kind error, format string, args ...any) *SnapshotWriter {
	if w.err == nil {
		w.err = wrap(kind, format, args...)
	}
	return w
}

// Copy replaces the buffer with the contents of sourcePath, preserving the
// writer's target File record. Fails with [ErrSourceMissing] when
// sourcePath does not exist.
func (w *SnapshotWriter) Copy(sourcePath string) *SnapshotWriter {
	if w.err != nil {
		return w
	}
	if _, statErr := os.Stat(sourcePath); statErr != nil {
		return w.fail(ErrSourceMissing, "copy source %s", sourcePath)
	}

	r := NewBufferedReaderFromPath(sourcePath)
	if !r.IsValid() {
		return w.fail(ErrReaderInvalid, "copy source %s", sourcePath)
	}
	snap, err := r.Snapshot()
	if err != nil {
		w.err = err
		return w
	}

	w.content = append([]byte(nil), snap.Content...)
	w.modifySnap()
	return w
}

// Append appends content to the end of the buffer.
func (w *SnapshotWriter) Append(content []byte) *SnapshotWriter {
	if w.err != nil {
		return w
	}
	w.content = append(w.content, content...)
	w.modifySnap()
	return w
}

// Insert inserts content at offset, shifting the remainder right.
func (w *SnapshotWriter) Insert(offset int64, content []byte) *SnapshotWriter {
	if w.err != nil {
		return w
	}
	if offset < 0 || offset > int64(len(w.content)) {
		return w.fail(ErrWriteFailed, "insert: offset %d out of range", offset)
	}

	buf := make([]byte, 0, len(w.content)+len(content))
	buf = append(buf, w.content[:offset]...)
	buf = append(buf, content...)
	buf = append(buf, w.content[offset:]...)
	w.content = buf
	w.modifySnap()
	return w
}

// Write replaces the entire buffer with content.
func (w *SnapshotWriter) Write(content []byte) *SnapshotWriter {
	if w.err != nil {
		return w
	}
	w.content = append([]byte(nil), content...)
	w.modifySnap()
	return w
}

// WriteAt overwrites the region starting at offset: it erases len(content)
// bytes at offset, then inserts content. This is not a surgical patch —
// the erased width equals the new width, not the width of whatever
// previously occupied that span.
func (w *SnapshotWriter) WriteAt(offset int64, content []byte) *SnapshotWriter {
	if w.err != nil {
		return w
	}
	if offset < 0 || offset > int64(len(w.content)) {
		return w.fail(ErrWriteFailed, "write: offset %d out of range", offset)
	}

	eraseEnd := offset + int64(len(content))
	if eraseEnd > int64(len(w.content)) {
		eraseEnd = int64(len(w.content))
	}

	buf := make([]byte, 0, int64(len(w.content))-(eraseEnd-offset)+int64(len(content)))
	buf = append(buf, w.content[:offset]...)
	buf = append(buf, content...)
	buf = append(buf, w.content[eraseEnd:]...)
	w.content = buf
	w.modifySnap()
	return w
}

// DeleteCont erases the byte range [from, to).
func (w *SnapshotWriter) DeleteCont(from, to int64) *SnapshotWriter {
	if w.err != nil {
		return w
	}
	if from < 0 || to < from || to > int64(len(w.content)) {
		return w.fail(ErrWriteFailed, "delete: range [%d,%d) out of bounds", from, to)
	}

	w.content = append(w.content[:from:from], w.content[to:]...)
	w.modifySnap()
	return w
}

// DeleteRow erases the bytes spanning row and row+1, using the row-offset
// index: [rowOffsets[row], rowOffsets[row+1]), or to the end of the buffer
// if row is the last row.
func (w *SnapshotWriter) DeleteRow(row int) *SnapshotWriter {
	if w.err != nil {
		return w
	}
	if row < 0 || row >= len(w.rowOffsets) {
		return w.fail(ErrWriteFailed, "delete row %d out of range", row)
	}

	from := w.rowOffsets[row]
	to := int64(len(w.content))
	if row+1 < len(w.rowOffsets) {
		to = w.rowOffsets[row+1]
	}
	return w.DeleteCont(from, to)
}

// InsertRow inserts line at the start of row, appending a trailing newline
// if line does not already end with one.
func (w *SnapshotWriter) InsertRow(row int, line []byte) *SnapshotWriter {
	if w.err != nil {
		return w
	}
	if row < 0 || row >= len(w.rowOffsets) {
		return w.fail(ErrWriteFailed, "insert row %d out of range", row)
	}

	offset := w.rowOffsets[row]
	content := line
	if len(content) == 0 || content[len(content)-1] != '\n' {
		content = append(append([]byte(nil), line...), '\n')
	}
	return w.Insert(offset, content)
}

// ReplaceAll performs a global PCRE-style substitution: every match of
// pattern is replaced by template (which may reference capture groups,
// e.g. "$1"). Fails with [ErrPatternCompile] on an invalid pattern.
func (w *SnapshotWriter) ReplaceAll(pattern, template string) *SnapshotWriter {
	if w.err != nil {
		return w
	}

	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return w.fail(ErrPatternCompile, "%s: %v", pattern, err)
	}

	out, err := re.Replace(string(w.content), template, 0, -1)
	if err != nil {
		return w.fail(ErrPatternMatchFailure, "%s: %v", pattern, err)
	}

	w.content = []byte(out)
	w.modifySnap()
	return w
}

// Replace substitutes only the nth occurrence of pattern with template.
// Negative nth counts from the end: -1 is the last occurrence, -2 the
// second-to-last, and so on, via ((nth % count) + count) % count.
//
// Replace locates matches via [BufferedReader.Find] over the writer's
// current content, then splices the substituted text in via
// [SnapshotWriter.WriteAt] — which means the erase width is the
// replacement's width, not the matched text's width.
func (w *SnapshotWriter) Replace(pattern, template string, nth int) *SnapshotWriter {
	if w.err != nil {
		return w
	}

	snap := w.Snapshot()
	reader := NewSnapshotReader(snap)
	matches, err := reader.Find(pattern, true, FindOptions{})
	if err != nil {
		w.err = err
		return w
	}
	if len(matches) == 0 {
		return w
	}

	n := ((nth % len(matches)) + len(matches)) % len(matches)
	target := matches[n]

	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return w.fail(ErrPatternCompile, "%s: %v", pattern, err)
	}

	scoped := string(w.content[target.Range.Start:target.Range.End])
	substituted, err := re.Replace(scoped, template, 0, -1)
	if err != nil {
		return w.fail(ErrPatternMatchFailure, "%s: %v", pattern, err)
	}

	return w.WriteAt(target.Range.Start, []byte(substituted))
}

// Commit truncates the target file and writes the full buffer, re-syncs
// the File record, and clears Dirty. Commit does not guarantee crash
// atomicity; callers wanting that should call [SnapshotWriter.Backup] first
// or write-to-temp-then-rename externally.
func (w *SnapshotWriter) Commit() bool {
	log := Log.WithField("path", w.file.Path).WithField("commit_id", w.CommitID)

	if err := os.WriteFile(w.file.Path, w.content, 0o644); err != nil {
		log.WithError(err).Warn("ctrlcv: commit failed")
		return false
	}

	w.file.Sync()
	w.dirty = false
	log.Debug("ctrlcv: commit ok")
	return true
}

// Backup writes the current buffer to path+suffix. If that path already
// exists, it falls back to path+".("+lastModified+")"+suffix, using the
// snapshot's last-modified nanoseconds (not wall-clock time), so repeated
// backups of an unchanged snapshot are idempotent in naming.
func (w *SnapshotWriter) Backup(suffix string) bool {
	if suffix == "" {
		suffix = ".bak"
	}

	bkpPath := w.file.Path + suffix
	if _, err := os.Stat(bkpPath); err == nil {
		bkpPath = w.file.Path + ".(" + strconv.FormatInt(w.lastModified, 10) + ")" + suffix
	}

	if err := os.WriteFile(bkpPath, w.content, 0o644); err != nil {
		Log.WithError(err).WithField("path", bkpPath).Warn("ctrlcv: backup failed")
		return false
	}
	w.dirty = false
	return true
}

// Flush writes the buffer to an arbitrary path, creating or truncating it.
func (w *SnapshotWriter) Flush(path string) bool {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		Log.WithError(err).WithField("path", path).Warn("ctrlcv: flush mkdir failed")
		return false
	}
	if err := os.WriteFile(path, w.content, 0o644); err != nil {
		Log.WithError(err).WithField("path", path).Warn("ctrlcv: flush failed")
		return false
	}
	return true
}
