// Package sink provides destinations for generated files.
package sink

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// OutputSink receives rendered files. Paths are slash-separated and relative
// to the sink's root.
type OutputSink interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FilesystemSink writes files below Root. Each write goes to a temporary file
// in the target directory that is renamed into place, so readers never see a
// partially written output.
type FilesystemSink struct {
	Root string

	// Mode is the permission of written files (default 0644).
	Mode os.FileMode
}

// NewFilesystemSink returns a sink writing below root.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0o644}
}

// WriteFile writes content to path below the sink root, creating parent
// directories as needed.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid output path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".bindgen-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpPath := tmp.Name()
	_, werr := tmp.Write(content)
	cerr := tmp.Close()
	if err := errors.CombineErrors(werr, cerr); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "writing %s", path)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "chmod %s", path)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "replacing %s", path)
	}
	return nil
}

// resolve joins path onto the root and rejects results outside it.
func (s *FilesystemSink) resolve(path string) (string, error) {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", errors.Wrap(err, "resolving output root")
	}
	target := filepath.Join(root, filepath.FromSlash(path))
	if !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", errors.Newf("output path %q escapes %s", path, root)
	}
	return target, nil
}

// MemorySink keeps written files in memory. It is safe for concurrent use.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
	order []string
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content under path.
func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid output path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		s.order = append(s.order, path)
	}
	s.files[path] = slices.Clone(content)
	return nil
}

// Get returns a copy of the file at path, or nil.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[path]
	if !ok {
		return nil
	}
	return slices.Clone(content)
}

// Files returns a copy of every stored file keyed by path.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.files))
	for p, c := range s.files {
		out[p] = slices.Clone(c)
	}
	return out
}

// Order returns paths in the order they were first written.
func (s *MemorySink) Order() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Reset drops every stored file.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
	s.order = nil
}

// ValidatePath checks that path is a clean, relative, slash-separated path
// that stays below the output root.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return errors.New("path is empty")
	case filepath.IsAbs(path), strings.HasPrefix(path, "/"), isDriveLetter(path):
		return errors.New("absolute paths not allowed")
	case strings.Contains(path, `\`):
		return errors.New("backslashes not allowed")
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := filepath.ToSlash(filepath.Clean(path)); cleaned != path {
		return errors.Newf("path is not clean (expected %q)", cleaned)
	}
	return nil
}

func isDriveLetter(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}
	c := path[0] | 0x20
	return c >= 'a' && c <= 'z'
}
