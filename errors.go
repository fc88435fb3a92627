package ctrlcv

import (
	"github.com/pkg/errors"
)

// Sentinel error kinds, checked with [errors.Is].
var (
	// ErrPathInvalid indicates a file or directory could not be opened or
	// stat'ed.
	ErrPathInvalid = errors.New("ctrlcv: path invalid")

	// ErrReaderInvalid indicates a BufferedReader was constructed against a
	// directory, a nonexistent file, or a file that vanished mid-read.
	ErrReaderInvalid = errors.New("ctrlcv: reader invalid")

	// ErrPatternCompile indicates a regex pattern failed to compile.
	ErrPatternCompile = errors.New("ctrlcv: pattern compile failed")

	// ErrPatternMatchFailure indicates the regex engine reported a fatal
	// (non no-match) error while matching or substituting.
	ErrPatternMatchFailure = errors.New("ctrlcv: pattern match failed")

	// ErrWalkFailed indicates a DirWalker could not open its directory.
	ErrWalkFailed = errors.New("ctrlcv: walk failed")

	// ErrWriteFailed indicates commit/backup/flush could not produce a good
	// output stream.
	ErrWriteFailed = errors.New("ctrlcv: write failed")

	// ErrSourceMissing indicates SnapshotWriter.Copy's source path does not
	// exist.
	ErrSourceMissing = errors.New("ctrlcv: copy source missing")

	// ErrPoolClosed indicates Enqueue was called after the pool was stopped.
	ErrPoolClosed = errors.New("ctrlcv: pool closed")

	// ErrPoolSaturated indicates Enqueue was called against a bounded pool
	// whose queue is full. See WithQueueDepth.
	ErrPoolSaturated = errors.New("ctrlcv: pool queue saturated")
)

// wrap annotates the sentinel kind with a formatted message and a stack
// trace; errors.Is(result, kind) still holds. A nil kind yields nil.
func wrap(kind error, format string, args ...any) error {
	return errors.Wrapf(kind, format, args...)
}
