// Package notebook provides notebook path resolution against the server root directory.

package notebook

import (
	"fmt"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// PathOutsideRootError is returned by Resolve when a restricted resolution escapes the root.
type PathOutsideRootError struct {
	Path string
	Root string
}

func (e *PathOutsideRootError) Error() string {
	return fmt.Sprintf("%s: outside of root directory %s", e.Path, e.Root)
}

// Join joins name onto rootDir. An absolute name replaces rootDir entirely and
// parent segments are kept, so the result may point outside rootDir.
func Join(rootDir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(rootDir, name)
}

// Resolve computes the full path of a notebook as expand_home(join(rootDir, name)).
// With restrict set, a result outside of the (expanded) rootDir is rejected.
func Resolve(rootDir, name string, restrict bool) (string, error) {
	fullPath := ExpandHome(Join(rootDir, name))
	if !restrict {
		return fullPath, nil
	}

	root := filepath.Clean(ExpandHome(rootDir))
	if !within(root, fullPath) {
		return "", &PathOutsideRootError{Path: fullPath, Root: root}
	}
	return fullPath, nil
}

// ExpandHome replaces a leading `~` or `~user` with the home directory. A path whose
// home directory cannot be determined is returned unchanged.
func ExpandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	name, rest, _ := strings.Cut(p[1:], string(filepath.Separator))
	if name == "" {
		expanded, err := homedir.Expand(p)
		if err != nil {
			return p
		}
		return expanded
	}

	u, err := user.Lookup(name)
	if err != nil || u.HomeDir == "" {
		return p
	}
	return filepath.Join(u.HomeDir, rest)
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
