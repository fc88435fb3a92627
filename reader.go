package ctrlcv

import "os"

// Block is a contiguous byte range read from a file, returned by
// [BufferedReader]'s windowing operations. A nil Block is the "null-block"
// sentinel used for out-of-range or failed reads.
type Block []byte

// ReaderStats reports cumulative [BufferedReader] activity, for callers
// that want to log or export read volume without instrumenting every
// call site themselves.
type ReaderStats struct {
	BytesRead int64
	Loads     int64
	Matches   int64
}

// BufferedReader provides block-oriented, random-access, and search access
// to a file, plus a byte -> (row, column) index.
//
// A BufferedReader owns its byte buffer and line index exclusively for its
// lifetime. It is thread-compatible, not thread-safe.
type BufferedReader struct {
	file File
	cfg  readerConfig

	buf   []byte // current window
	start int64  // absolute offset of buf[0]
	pos   int64  // stream cursor for Next/Prev and iteration

	rowOffsets []int64 // strictly increasing; rowOffsets[0] == 0

	snapshotMode bool
	valid        bool

	stats ReaderStats
}

// NewBufferedReader opens f.Path, reads the full file into the buffer, and
// builds the line-offset index.
//
// Construction fails softly: on a directory, a nonexistent path, or any I/O
// error, the returned reader has IsValid()==false rather than a non-nil
// error; callers that need an error value get [ErrReaderInvalid] from
// [BufferedReader.Snapshot].
func NewBufferedReader(f File, opts ...ReaderOption) *BufferedReader {
	r := &BufferedReader{file: f, cfg: defaultReaderConfig()}
	for _, opt := range opts {
		opt(&r.cfg)
	}

	if f.IsDir() {
		r.rowOffsets = []int64{0}
		return r
	}

	r.loadFull()
	return r
}

// NewBufferedReaderFromPath stats path and opens a reader for it.
func NewBufferedReaderFromPath(path string, opts ...ReaderOption) *BufferedReader {
	return NewBufferedReader(NewFile(path), opts...)
}

// NewSnapshotReader seeds the reader's buffer from snap's bytes instead of
// disk. The resulting reader is in snapshot mode: [BufferedReader.Sync] and
// [BufferedReader.Load] never touch disk again.
func NewSnapshotReader(snap Snapshot, opts ...ReaderOption) *BufferedReader {
	r := &BufferedReader{
		file:         snap.File,
		cfg:          defaultReaderConfig(),
		snapshotMode: true,
		valid:        true,
	}
	for _, opt := range opts {
		opt(&r.cfg)
	}
	r.buf = append([]byte(nil), snap.Content...)
	r.start = 0
	r.rebuildRowOffsets()
	return r
}

// IsValid reports whether the reader has usable content. See
// [ErrReaderInvalid].
func (r *BufferedReader) IsValid() bool { return r.valid }

// File returns the File record this reader was constructed from.
func (r *BufferedReader) File() File { return r.file }

// Stats returns a snapshot of cumulative reader activity.
func (r *BufferedReader) Stats() ReaderStats { return r.stats }

func (r *BufferedReader) loadFull() {
	if r.snapshotMode {
		return
	}

	info, err := os.Stat(r.file.Path)
	if err != nil || info.IsDir() {
		r.valid = false
		Log.WithError(err).WithField("path", r.file.Path).Debug("ctrlcv: reader stat failed")
		return
	}
	r.file.applyInfo(info)

	if r.file.Size == 0 {
		r.buf = []byte{}
		r.start = 0
		r.rowOffsets = []int64{0}
		r.valid = true
		return
	}

	data, err := os.ReadFile(r.file.Path)
	if err != nil {
		r.valid = false
		Log.WithError(err).WithField("path", r.file.Path).Debug("ctrlcv: reader read failed")
		return
	}

	r.buf = data
	r.start = 0
	r.valid = true
	r.stats.BytesRead += int64(len(data))
	r.stats.Loads++
	r.rebuildRowOffsets()
}

func (r *BufferedReader) rebuildRowOffsets() {
	offsets := make([]int64, 1, len(r.buf)/48+1)
	offsets[0] = 0
	for i, b := range r.buf {
		if b == '\n' {
			offsets = append(offsets, int64(i)+1)
		}
	}
	r.rowOffsets = offsets
}

// Sync refreshes the buffer. In disk mode it re-stats the file, reloads the
// full buffer, and rebuilds the row-offset index. In snapshot mode it
// returns the existing buffer without touching disk.
//
// Sync returns a null Block (and sets IsValid()==false) when the file has
// disappeared or become unreadable.
func (r *BufferedReader) Sync() Block {
	if r.snapshotMode {
		if !r.valid {
			return nil
		}
		return Block(r.buf)
	}

	r.loadFull()
	if !r.valid {
		return nil
	}
	return Block(r.buf)
}

// Load reloads the buffer with the byte range [from, to), updating the
// window. Returns a null Block when from > size, to > size, or to == 0.
//
// In snapshot mode Load always returns the full snapshot buffer; there is
// no sub-slicing, since there is no disk to re-read from.
func (r *BufferedReader) Load(from, to int64) Block {
	if !r.valid {
		return nil
	}
	if r.snapshotMode {
		return Block(r.buf)
	}

	size := r.file.Size
	if from > size || to > size || to == 0 {
		return nil
	}

	length := to - from
	data := make([]byte, length)
	fh, err := os.Open(r.file.Path)
	if err != nil {
		return nil
	}
	defer fh.Close()

	n, err := fh.ReadAt(data, from)
	if err != nil && int64(n) != length {
		return nil
	}

	r.buf = data
	r.start = from
	r.stats.BytesRead += length
	r.stats.Loads++
	return Block(r.buf)
}

// covers reports whether the current window fully contains [from, to).
func (r *BufferedReader) covers(from, to int64) bool {
	return r.buf != nil && from >= r.start && to <= r.start+int64(len(r.buf))
}

// Get returns a non-owning view of [from, to), triggering Load if the range
// is not covered by the current window.
func (r *BufferedReader) Get(from, to int64) []byte {
	if !r.valid || from > r.file.Size || to > r.file.Size || from > to {
		return nil
	}
	if r.snapshotMode {
		if to > int64(len(r.buf)) {
			return nil
		}
		return r.buf[from:to]
	}
	if !r.covers(from, to) {
		if r.Load(from, to) == nil {
			return nil
		}
	}
	lo := from - r.start
	hi := to - r.start
	return r.buf[lo:hi]
}

// ReadBlockAt returns up to the configured block size starting at pos,
// clamped to file size. It reloads the window via Load when the current
// buffer does not cover the requested range.
func (r *BufferedReader) ReadBlockAt(pos int64) Block {
	if !r.valid || pos >= r.file.Size {
		return nil
	}

	size := int64(r.cfg.blockSize)
	if r.file.Size-pos < size {
		size = r.file.Size - pos
	}

	if r.snapshotMode {
		return Block(r.buf[pos : pos+size])
	}

	if !r.covers(pos, pos+size) {
		r.Load(pos, pos+size)
	}
	lo := pos - r.start
	return Block(r.buf[lo : lo+size])
}

// Reset frees the buffer, zeroes the window, and positions the stream
// cursor at 0 (or at file size, if reading in reverse).
func (r *BufferedReader) Reset() {
	r.buf = nil
	r.start = 0
	if r.cfg.readReverse {
		r.pos = r.file.Size
	} else {
		r.pos = 0
	}
}

// GetPointFromByte returns the (row, column) for byte offset, valid for
// offset <= file size. Row is the index of the last row-offset entry <=
// offset; column is the byte distance from that row's start.
//
// Columns are byte counts, not code-point counts: a multibyte rune
// advances the column by its encoded byte width, not by one.
func (r *BufferedReader) GetPointFromByte(offset int64) Point {
	if len(r.rowOffsets) == 0 {
		return Point{Row: 0, Col: int(offset)}
	}

	// upper_bound: first index with rowOffsets[i] > offset.
	lo, hi := 0, len(r.rowOffsets)
	for lo < hi {
		mid := (lo + hi) / 2
		if r.rowOffsets[mid] <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	row := lo - 1
	if row < 0 {
		row = 0
	}
	return Point{Row: row, Col: int(offset - r.rowOffsets[row])}
}

// Snapshot re-syncs the file and returns a fresh, immutable [Snapshot] of
// its current bytes.
func (r *BufferedReader) Snapshot() (Snapshot, error) {
	if r.Sync() == nil {
		return Snapshot{}, wrap(ErrReaderInvalid, "snapshot %s", r.file.Path)
	}
	return Snapshot{
		File:         r.file,
		Content:      append([]byte(nil), r.buf...),
		LastModified: r.file.ModTime,
		Dirty:        false,
	}, nil
}
