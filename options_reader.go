package ctrlcv

// defaultBlockSize is the default stride for [BufferedReader] block
// iteration and [BufferedReader.Next]/[BufferedReader.Prev] traversal.
const defaultBlockSize = 4096

// ReaderOption configures a [BufferedReader] at construction time.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	blockSize   int
	readReverse bool
}

func defaultReaderConfig() readerConfig {
	return readerConfig{blockSize: defaultBlockSize}
}

// WithBlockSize sets the stride used by block iteration and Next/Prev.
// size <= 0 is ignored, leaving the block size unchanged (4096 unless an
// earlier option set it).
func WithBlockSize(size int) ReaderOption {
	return func(c *readerConfig) {
		if size > 0 {
			c.blockSize = size
		}
	}
}

// WithReadReverse reverses the traversal direction of Next/Prev.
func WithReadReverse(reverse bool) ReaderOption {
	return func(c *readerConfig) {
		c.readReverse = reverse
	}
}
