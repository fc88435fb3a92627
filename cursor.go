package ctrlcv

// Next and Prev are stream-style accessors driven by the reader's internal
// cursor (Pos). Next reads the block-sized window starting at the cursor
// and steps forward (or backward, if [WithReadReverse] is set); Prev reads
// the block-sized window ending at the cursor and steps the opposite way.
//
// Both index into the buffer as `buf[pos-bufStart : ...]`, never
// `buf[pos-bufSize : ...]`: the buffer's start offset, not its capacity, is
// what anchors a position within it, and that holds even for the short
// final window at the end of a file.

// Pos returns the current stream cursor position.
func (r *BufferedReader) Pos() int64 { return r.pos }

// Next returns the next block-sized window starting at the cursor, then
// advances the cursor (forward, or backward if reading in reverse). Returns
// a null Block at the boundary.
func (r *BufferedReader) Next() Block {
	if !r.valid || r.buf == nil || r.pos >= r.file.Size || r.file.Size == 0 {
		return nil
	}

	size := int64(r.cfg.blockSize)
	if remaining := r.file.Size - r.pos; remaining < size {
		size = remaining
	}

	if !r.covers(r.pos, r.pos+size) {
		r.Load(r.pos, r.pos+size)
	}

	curr := r.buf[r.pos-r.start : r.pos-r.start+size]

	if r.cfg.readReverse {
		if r.pos >= size {
			r.pos -= size
		} else {
			r.pos = 0
		}
	} else {
		r.pos += size
	}

	return Block(curr)
}

// Prev returns the block-sized window ending at the cursor, then steps the
// cursor the opposite way from Next. Returns a null Block at the boundary.
func (r *BufferedReader) Prev() Block {
	if !r.valid || r.buf == nil || r.pos <= 0 || r.file.Size == 0 {
		return nil
	}

	size := int64(r.cfg.blockSize)
	if r.pos < size {
		size = r.pos
	}

	from := r.pos - size
	if !r.covers(from, r.pos) {
		r.Load(from, r.pos)
	}

	curr := r.buf[from-r.start : r.pos-r.start]

	if r.cfg.readReverse {
		if next := r.pos + size; next <= r.file.Size {
			r.pos = next
		} else {
			r.pos = r.file.Size
		}
	} else {
		r.pos = from
	}

	return Block(curr)
}

// Cursor is a bidirectional, block-sized iterator over a BufferedReader's
// file content, modeled as an explicit type with Next/Prev/Done methods
// rather than Go's range-over-func iterator protocol, so callers can hold
// and pass around a cursor's position independent of the reader's own.
type Cursor struct {
	r   *BufferedReader
	pos int64
}

// Begin returns a Cursor positioned at the start of the file.
func (r *BufferedReader) Begin() *Cursor { return &Cursor{r: r, pos: 0} }

// End returns the sentinel Cursor: pos == file size.
func (r *BufferedReader) End() *Cursor { return &Cursor{r: r, pos: r.file.Size} }

// Block returns ReadBlockAt(cursor position).
func (c *Cursor) Block() Block { return c.r.ReadBlockAt(c.pos) }

// Next advances the cursor by one block, saturating at file size.
func (c *Cursor) Next() {
	c.pos += int64(c.r.cfg.blockSize)
	if c.pos >= c.r.file.Size {
		c.pos = c.r.file.Size
	}
}

// Prev moves the cursor back by one block, saturating at 0.
func (c *Cursor) Prev() {
	if c.pos == 0 {
		return
	}
	if c.pos >= int64(c.r.cfg.blockSize) {
		c.pos -= int64(c.r.cfg.blockSize)
	} else {
		c.pos = 0
	}
}

// Done reports whether the cursor has reached the End sentinel.
func (c *Cursor) Done() bool { return c.pos >= c.r.file.Size }

// Pos returns the cursor's current byte offset.
func (c *Cursor) Pos() int64 { return c.pos }
