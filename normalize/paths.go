package normalize

import (
	"os"
	"path/filepath"
	"strings"
)

// rootMarkers identify a project root directory.
var rootMarkers = []string{".git", "CMakeLists.txt", "bindgen.yaml", "pubspec.yaml"}

// bucketer computes module file keys for source paths.
type bucketer struct {
	projectRoot string
	detected    map[string]string
}

func newBucketer(projectRoot string) *bucketer {
	b := &bucketer{detected: make(map[string]string)}
	if projectRoot != "" {
		if abs, err := filepath.Abs(projectRoot); err == nil {
			b.projectRoot = abs
		}
	}
	return b
}

// key returns the slash-separated key of a source file: relative to the
// configured project root when it contains the file, else relative to the
// nearest detected project root, else the absolute path.
func (b *bucketer) key(file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		abs = filepath.Clean(file)
	}
	if b.projectRoot != "" {
		if rel, ok := within(b.projectRoot, abs); ok {
			return rel
		}
	}
	if root := b.detect(filepath.Dir(abs)); root != "" {
		if rel, ok := within(root, abs); ok {
			return rel
		}
	}
	return filepath.ToSlash(abs)
}

func within(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// detect walks up from dir looking for a root marker.
func (b *bucketer) detect(dir string) string {
	if root, ok := b.detected[dir]; ok {
		return root
	}
	root := ""
	for _, marker := range rootMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			root = dir
			break
		}
	}
	if root == "" {
		if parent := filepath.Dir(dir); parent != dir {
			root = b.detect(parent)
		}
	}
	b.detected[dir] = root
	return root
}

// excluded reports whether any segment of path equals an excluded name.
func excluded(path string, dirs map[string]bool) bool {
	if len(dirs) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for part := range strings.SplitSeq(filepath.ToSlash(abs), "/") {
		if dirs[part] {
			return true
		}
	}
	return false
}
