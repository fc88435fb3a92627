// Package ctrlcv provides parallel, syntax-aware bulk transformation of
// files in a directory tree.
//
// Given a root directory, [DirWalker] enumerates entries and fans work out
// to a [ThreadPool]. For each file, a [BufferedReader] provides block-wise
// random access, a line-offset index, and literal/regex search; a
// [SnapshotWriter] accumulates edits against an in-memory copy of the file
// and commits them back durably, with an optional backup.
//
// # Symlinks
//
// Symbolic links are never followed: entries are stat'ed without resolving
// links, so a symlink to a file or directory reaches the [DirWalker]
// callback as a [File] of [KindOther] and is never descended into.
//
// # Thread-safety
//
// [ThreadPool] and [DirWalker]'s parallel walk are safe for concurrent use.
// [BufferedReader], [SnapshotWriter], and [File] are thread-compatible but
// not thread-safe: distinct instances on distinct goroutines are fine, but a
// single instance must not be shared across goroutines without external
// synchronization.
//
// # Logging
//
// The package logs through a package-level [logrus.Logger] (see [SetLogger])
// rather than the standard library's log package, so callers can attach
// fields or redirect output without threading a logger through every call.
package ctrlcv

import "github.com/sirupsen/logrus"

// Log is the logger used for all package-internal diagnostics. It defaults
// to [logrus.StandardLogger]. Replace it with [SetLogger] to redirect
// output or attach fields.
var Log = logrus.StandardLogger()

// SetLogger replaces the package-level logger. Passing nil restores the
// standard logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	Log = l
}
