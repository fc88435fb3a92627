package ctrlcv

import (
	"os"
	"path/filepath"
)

// enumerateDirPortable lists dir's immediate children using the standard
// library. It is the fallback enumerator on every platform, and the only
// enumerator on non-Linux ones.
func enumerateDirPortable(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info; surface it as an
			// invalid File rather than dropping it silently.
			files = append(files, File{Path: filepath.Join(dir, e.Name()), Name: e.Name()})
			continue
		}
		files = append(files, fileFromInfo(filepath.Join(dir, e.Name()), info))
	}
	return files, nil
}
