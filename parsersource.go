package ctrlcv

// ParserSource returns a (byteOffset, point) -> (chunk, bytesRead) callback
// in the shape expected by external incremental-parser libraries (for
// example, tree-sitter's TSInput.read), backed by r's block-wise windowed
// access.
//
// This package deliberately stops here: it exposes the adapter a caller
// needs to wire r into their own parser, but never imports a parser
// itself, so adding structural-query support never forces a specific
// parser dependency on every caller.
func (r *BufferedReader) ParserSource() func(byteOffset int, point Point) ([]byte, int) {
	return func(byteOffset int, _ Point) ([]byte, int) {
		block := r.ReadBlockAt(int64(byteOffset))
		if block == nil {
			return nil, 0
		}
		return block, len(block)
	}
}
