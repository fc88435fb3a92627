package ctrlcv

import (
	"bytes"

	"github.com/dlclark/regexp2"
)

// Point is a (row, column) position, both zero-based. Columns are byte
// counts, not code-point counts.
type Point struct {
	Row int
	Col int
}

// Range is a byte span with its corresponding row/column endpoints.
type Range struct {
	Start, End           int64
	StartPoint, EndPoint Point
}

// MatchResult is one match produced by [BufferedReader.Find]: its overall
// range, plus any capture group ranges (regex mode only).
type MatchResult struct {
	Range    Range
	Captures []Range
}

// FindOptions configures [BufferedReader.Find].
type FindOptions struct {
	// CaseInsensitive applies only in regex mode. Literal search is always
	// byte-exact; case-folding a literal pattern would require Unicode
	// normalization decisions this package doesn't make.
	CaseInsensitive bool
}

// Find searches the reader's current buffer window for pattern.
//
// When regex is false, Find performs a literal, byte-exact, non-overlapping
// left-to-right search: each match advances the search past its end.
//
// When regex is true, pattern is compiled (returning [ErrPatternCompile] on
// failure) and matched repeatedly from the start of the window, with zero-
// length matches guaranteed to make progress.
//
// If the buffer has not yet been loaded, Find loads the full file first
// (matching the reader's lazy-load contract); it does not force a resync of
// an already-loaded partial window, so Find over a window narrowed by a
// prior [BufferedReader.Load] searches only that window.
func (r *BufferedReader) Find(pattern string, regex bool, opts FindOptions) ([]MatchResult, error) {
	if r.buf == nil {
		if r.Sync() == nil {
			return nil, nil
		}
	}

	var results []MatchResult
	var err error
	if regex {
		results, err = r.findRegex(pattern, opts)
	} else {
		results = r.findLiteral(pattern)
	}
	r.stats.Matches += int64(len(results))
	return results, err
}

func (r *BufferedReader) findLiteral(pattern string) []MatchResult {
	if pattern == "" {
		return nil
	}

	var results []MatchResult
	window := r.buf
	offset := 0
	for {
		idx := bytes.Index(window[offset:], []byte(pattern))
		if idx < 0 {
			break
		}
		matchStart := offset + idx
		matchEnd := matchStart + len(pattern)
		results = append(results, r.rangeResult(int64(matchStart), int64(matchEnd)))
		offset = matchEnd
	}
	return results
}

func (r *BufferedReader) findRegex(pattern string, opts FindOptions) ([]MatchResult, error) {
	reOpts := regexp2.None
	if opts.CaseInsensitive {
		reOpts = regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(pattern, reOpts)
	if err != nil {
		return nil, wrap(ErrPatternCompile, "%s: %v", pattern, err)
	}

	s := string(r.buf)
	toByte := runeToByteOffsets(s)

	var results []MatchResult
	m, err := re.FindStringMatch(s)
	if err != nil {
		return nil, wrap(ErrPatternMatchFailure, "%s: %v", pattern, err)
	}
	for m != nil {
		start := int64(toByte[m.Index])
		end := int64(toByte[m.Index+m.Length])
		mr := r.rangeResult(start, end)

		for _, g := range m.Groups()[1:] {
			if len(g.Captures) == 0 {
				continue
			}
			c := g.Captures[0]
			if c.Index < 0 || c.Length < 0 {
				continue
			}
			cStart := int64(toByte[c.Index])
			cEnd := int64(toByte[c.Index+c.Length])
			mr.Captures = append(mr.Captures, r.rangeResult(cStart, cEnd).Range)
		}

		results = append(results, mr)

		m, err = re.FindNextMatch(m)
		if err != nil {
			return results, wrap(ErrPatternMatchFailure, "%s: %v", pattern, err)
		}
	}
	return results, nil
}

// rangeResult converts window-relative [start, end) into an absolute
// MatchResult, using the reader's row/column index.
func (r *BufferedReader) rangeResult(start, end int64) MatchResult {
	absStart := r.start + start
	absEnd := r.start + end
	return MatchResult{
		Range: Range{
			Start:      absStart,
			End:        absEnd,
			StartPoint: r.GetPointFromByte(absStart),
			EndPoint:   r.GetPointFromByte(absEnd),
		},
	}
}

// runeToByteOffsets maps a rune index (as regexp2 reports in Match.Index)
// to the corresponding byte offset into s. Element runeCount maps to
// len(s), so end-of-match indices resolve correctly too.
func runeToByteOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return offsets
}
