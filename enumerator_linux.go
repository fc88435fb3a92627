//go:build linux

package ctrlcv

import (
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"
)

// enumerateDir lists dir's immediate children via getdents64, with one
// Lstat per entry for its type, size and modification time. It falls back
// to the portable path on any error opening or reading the directory; when
// that fallback fails as well (for example on a permission error), its
// error is returned.
func enumerateDir(dir string) ([]File, error) {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return enumerateDirPortable(dir)
	}
	defer unix.Close(fd)

	var files []File
	buf := make([]byte, 64*1024)
	for {
		n, err := unix.Getdents(fd, buf)
		if err != nil {
			return enumerateDirPortable(dir)
		}
		if n == 0 {
			break
		}

		var names []string
		_, _, names = unix.ParseDirent(buf[:n], -1, names)
		for _, name := range names {
			// getdents64 returns "." and "..", but unix.ParseDirent drops
			// them, so they never appear in names.
			path := filepath.Join(dir, name)
			var st unix.Stat_t
			if err := unix.Lstat(path, &st); err != nil {
				continue
			}
			files = append(files, fileFromStat(path, name, &st))
		}
	}

	// getdents64 returns entries in whatever order the filesystem's directory
	// index keeps them (hash-tree order on most Linux filesystems), not
	// lexicographic order. Sort to match the portable path's os.ReadDir
	// guarantee.
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func fileFromStat(path, name string, st *unix.Stat_t) File {
	f := File{
		Path:    path,
		Name:    name,
		Ext:     extOf(name),
		Valid:   true,
		ModTime: st.Mtim.Sec*1e9 + st.Mtim.Nsec,
	}
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFDIR:
		f.Kind = KindDir
	case unix.S_IFREG:
		f.Kind = KindRegular
		f.Size = st.Size
	default:
		f.Kind = KindOther
	}
	return f
}
