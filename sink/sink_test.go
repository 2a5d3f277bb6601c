package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "simple", path: "window.dart"},
		{name: "nested", path: "include/window.g.dart"},
		{name: "dotfile", path: ".packages"},
		{name: "double dot inside name", path: "a..b.dart"},
		{name: "empty", path: "", wantErr: "empty"},
		{name: "absolute", path: "/tmp/out.dart", wantErr: "absolute paths not allowed"},
		{name: "drive letter", path: "C:/out.dart", wantErr: "absolute paths not allowed"},
		{name: "backslash", path: `include\window.dart`, wantErr: "backslashes"},
		{name: "traversal", path: "include/../../out.dart", wantErr: "path traversal not allowed"},
		{name: "leading traversal", path: "../out.dart", wantErr: "path traversal not allowed"},
		{name: "dot prefix", path: "./out.dart", wantErr: "not clean"},
		{name: "double slash", path: "a//out.dart", wantErr: "not clean"},
		{name: "trailing slash", path: "include/", wantErr: "not clean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySink()

	content := []byte("class Window {}\n")
	require.NoError(t, s.WriteFile(ctx, "window.dart", content))
	require.NoError(t, s.WriteFile(ctx, "include/app.dart", []byte("app\n")))
	require.NoError(t, s.WriteFile(ctx, "window.dart", []byte("v2\n")))

	content[0] = 'X'
	assert.Equal(t, []byte("v2\n"), s.Get("window.dart"))
	assert.Nil(t, s.Get("missing.dart"))
	assert.Equal(t, []string{"window.dart", "include/app.dart"}, s.Order())

	files := s.Files()
	files["window.dart"][0] = 'Z'
	assert.Equal(t, []byte("v2\n"), s.Get("window.dart"))

	assert.Error(t, s.WriteFile(ctx, "../escape.dart", nil))

	s.Reset()
	assert.Empty(t, s.Files())
	assert.Empty(t, s.Order())
}

func TestMemorySinkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMemorySink().WriteFile(ctx, "a.dart", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemorySinkConcurrent(t *testing.T) {
	s := NewMemorySink()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.WriteFile(context.Background(), fmt.Sprintf("f%d.dart", i), []byte{byte(i)}))
		}()
	}
	wg.Wait()
	assert.Len(t, s.Files(), 20)
}

func TestFilesystemSink(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewFilesystemSink(root)

	require.NoError(t, s.WriteFile(ctx, "include/window.g.dart", []byte("one\n")))
	got, err := os.ReadFile(filepath.Join(root, "include", "window.g.dart"))
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(got))

	require.NoError(t, s.WriteFile(ctx, "include/window.g.dart", []byte("two\n")))
	got, err = os.ReadFile(filepath.Join(root, "include", "window.g.dart"))
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(got))

	info, err := os.Stat(filepath.Join(root, "include", "window.g.dart"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Join(root, "include"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFilesystemSinkRejectsBadPaths(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(filepath.Join(root, "out"))
	for _, p := range []string{"../outside.dart", "/abs.dart", ""} {
		assert.Error(t, s.WriteFile(context.Background(), p, []byte("x")), p)
	}
	_, err := os.Stat(filepath.Join(root, "outside.dart"))
	assert.True(t, os.IsNotExist(err))
}

func TestFilesystemSinkMode(t *testing.T) {
	root := t.TempDir()
	s := &FilesystemSink{Root: root, Mode: 0o600}
	require.NoError(t, s.WriteFile(context.Background(), "secret.dart", []byte("x")))
	info, err := os.Stat(filepath.Join(root, "secret.dart"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
