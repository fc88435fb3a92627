package ctrlcv

import (
	"os"
	"path/filepath"
	"strings"
)

// Kind classifies a filesystem entry surfaced by [File].
type Kind uint8

const (
	// KindOther covers symlinks, FIFOs, sockets, devices, and anything else
	// that is neither a regular file nor a directory.
	KindOther Kind = iota
	KindDir
	KindRegular
)

// File is an immutable-except-for-Sync description of one filesystem entry.
//
// It is produced either by stat'ing a path ([NewFile]) or by adapting an
// entry surfaced during directory enumeration ([DirWalker]). File is freely
// copyable plain data; callers may keep copies beyond the callback that
// produced them.
type File struct {
	// Path is the path this File was constructed from (absolute or
	// relative, whichever the caller supplied).
	Path string
	// Name is the leaf name (Path's final path element).
	Name string
	// Ext is the file extension without the leading dot. Empty when the
	// name has no extension.
	Ext string
	// Kind classifies the entry.
	Kind Kind
	// Size is the file size in bytes. Always 0 for directories.
	Size int64
	// Valid is false when the path did not exist, or could not be stat'ed,
	// at the time of the last Sync (or construction).
	Valid bool
	// ModTime is the last modification time, in nanoseconds since the Unix
	// epoch, as of the last Sync.
	ModTime int64
}

// NewFile stats path and returns the resulting File. A File for a path that
// does not exist (or cannot be stat'ed) is returned with Valid=false rather
// than an error, consistent with how a BufferedReader built from an invalid
// File reports [ErrReaderInvalid] lazily rather than at construction.
func NewFile(path string) File {
	f := File{Path: path}
	f.sync(path)
	return f
}

// fileFromInfo adapts an already-stat'ed entry (as produced by a directory
// enumerator) into a File, avoiding a redundant stat syscall.
func fileFromInfo(path string, info os.FileInfo) File {
	f := File{Path: path, Valid: true}
	f.applyInfo(info)
	return f
}

func (f *File) applyInfo(info os.FileInfo) {
	f.Name = info.Name()
	f.Ext = extOf(f.Name)
	f.ModTime = info.ModTime().UnixNano()
	switch {
	case info.IsDir():
		f.Kind = KindDir
		f.Size = 0
	case info.Mode().IsRegular():
		f.Kind = KindRegular
		f.Size = info.Size()
	default:
		f.Kind = KindOther
		f.Size = 0
	}
}

func extOf(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimPrefix(ext, ".")
}

// Sync re-stats the underlying path, refreshing every field. Call it after
// the file may have changed on disk (for example between scans of a
// [WatchPoll]).
func (f *File) Sync() {
	f.sync(f.Path)
}

func (f *File) sync(path string) {
	info, err := os.Lstat(path)
	if err != nil {
		f.Valid = false
		f.Kind = KindOther
		f.Size = 0
		return
	}
	f.Path = path
	f.Valid = true
	f.applyInfo(info)
}

// IsDir reports whether f describes a directory.
func (f *File) IsDir() bool { return f.Kind == KindDir }

// IsRegular reports whether f describes a regular file.
func (f *File) IsRegular() bool { return f.Kind == KindRegular }
