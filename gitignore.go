package ctrlcv

import (
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
)

// resolveGitignore loads root's .gitignore file when [WithRespectGitignore]
// is set. A missing or unreadable .gitignore disables matching for that
// walk rather than failing it — gitignore enforcement is best-effort.
func (w *DirWalker) resolveGitignore(root string) gitignore.IgnoreMatcher {
	if !w.cfg.respectGitignore {
		return nil
	}
	m, err := gitignore.NewGitIgnore(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return m
}

// matchesGitignore reports whether f, given as an absolute or root-relative
// path, is matched by m. A nil matcher (gitignore disabled, or no
// .gitignore file present) matches nothing.
func matchesGitignore(m gitignore.IgnoreMatcher, root string, f File) bool {
	if m == nil {
		return false
	}
	rel, err := filepath.Rel(root, f.Path)
	if err != nil {
		return false
	}
	return m.Match(rel, f.IsDir())
}
