package bindgen

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// copyProject copies testdata/project into a temporary directory.
func copyProject(t *testing.T) string {
	t.Helper()
	dst := t.TempDir()
	src := filepath.Join("testdata", "project")
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)
	return dst
}

type runResult struct {
	res *Result
	err error
}

func nextRun(t *testing.T, runs <-chan runResult) runResult {
	t.Helper()
	select {
	case r := <-runs:
		return r
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for a run")
		return runResult{}
	}
}

func TestWatch(t *testing.T) {
	project := copyProject(t)
	cfg, err := LoadConfig(filepath.Join(project, "bindgen.yaml"))
	require.NoError(t, err)
	out := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan runResult, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cfg, WatchOptions{
			Options:  Options{OutDir: out},
			Debounce: 20 * time.Millisecond,
			OnRun:    func(res *Result, err error) { runs <- runResult{res, err} },
		})
	}()

	first := nextRun(t, runs)
	require.NoError(t, first.err)
	assert.Equal(t, wantBindings, readFile(t, out, "bindings.txt"))

	tmpl := filepath.Join(project, "template", "bindings.txt.tmpl")
	require.NoError(t, os.WriteFile(tmpl, []byte("language: {{.Mapping.Language}} (watched)\n"), 0o644))

	second := nextRun(t, runs)
	require.NoError(t, second.err)
	assert.Equal(t, "language: dart (watched)\n", readFile(t, out, "bindings.txt"))

	require.NoError(t, os.WriteFile(tmpl, []byte("{{.Missing}"), 0o644))
	broken := nextRun(t, runs)
	assert.Error(t, broken.err, "a failed run is reported and watching continues")

	cfgText := "entry_headers: [include/nativeapi.h]\nclang_flags: [-x, c]\nfilters:\n  project_root: .\nmapping:\n  language: swift\n"
	require.NoError(t, os.WriteFile(tmpl, []byte("language: {{.Mapping.Language}}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "bindgen.yaml"), []byte(cfgText), 0o644))

	require.Eventually(t, func() bool {
		select {
		case r := <-runs:
			data, err := os.ReadFile(filepath.Join(out, "bindings.txt"))
			return r.err == nil && err == nil && string(data) == "language: swift\n"
		default:
			return false
		}
	}, 10*time.Second, 10*time.Millisecond, "config changes reload the config")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchDirs(t *testing.T) {
	project := copyProject(t)
	cfg, err := LoadConfig(filepath.Join(project, "bindgen.yaml"))
	require.NoError(t, err)

	dirs := watchDirs(cfg)
	assert.Equal(t, []string{
		filepath.Join(project, "include"),
		filepath.Join(project, "template"),
		filepath.Join(project, "template", "file"),
		project,
	}, dirs, "missing tiers are skipped and duplicates collapse")
}

type recordingWatcher struct {
	added, removed []string
	fail           map[string]bool
}

func (w *recordingWatcher) Add(name string) error {
	if w.fail[name] {
		return os.ErrNotExist
	}
	w.added = append(w.added, name)
	return nil
}

func (w *recordingWatcher) Remove(name string) error {
	w.removed = append(w.removed, name)
	return nil
}

func TestRewatch(t *testing.T) {
	w := &recordingWatcher{fail: map[string]bool{"/gone": true}}
	watched := rewatch(w, nil, []string{"/include", "/template", "/gone"}, zap.NewNop())
	assert.Equal(t, []string{"/include", "/template"}, watched)
	assert.Equal(t, []string{"/include", "/template"}, w.added)

	w.added = nil
	watched = rewatch(w, watched, []string{"/include", "/extra", "/other-template"}, zap.NewNop())
	assert.Equal(t, []string{"/include", "/extra", "/other-template"}, watched)
	assert.Equal(t, []string{"/extra", "/other-template"}, w.added)
	assert.Equal(t, []string{"/template"}, w.removed)
}

func TestWatchReloadAddsDirectories(t *testing.T) {
	project := copyProject(t)
	extra := filepath.Join(project, "extra")
	require.NoError(t, os.MkdirAll(extra, 0o755))
	cfg, err := LoadConfig(filepath.Join(project, "bindgen.yaml"))
	require.NoError(t, err)
	require.NotContains(t, watchDirs(cfg), extra)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan runResult, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cfg, WatchOptions{
			Options:  Options{OutDir: t.TempDir()},
			Debounce: 20 * time.Millisecond,
			OnRun:    func(res *Result, err error) { runs <- runResult{res, err} },
		})
	}()
	require.NoError(t, nextRun(t, runs).err)

	cfgText := "entry_headers: [include/nativeapi.h]\ninclude_paths: [include, extra]\nclang_flags: [-x, c]\n" +
		"filters:\n  project_root: .\nmapping:\n  language: swift\n"
	require.NoError(t, os.WriteFile(filepath.Join(project, "bindgen.yaml"), []byte(cfgText), 0o644))
	require.NoError(t, nextRun(t, runs).err)

	// Drain runs caused by the config write before touching the new directory.
	time.Sleep(100 * time.Millisecond)
	for len(runs) > 0 {
		<-runs
	}

	require.NoError(t, os.WriteFile(filepath.Join(extra, "late.h"), []byte("int late;\n"), 0o644))
	r := nextRun(t, runs)
	assert.NoError(t, r.err, "a change in a directory added by the reload triggers a run")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestIsTempFile(t *testing.T) {
	assert.True(t, isTempFile("/out/.bindgen-1234.tmp"))
	assert.True(t, isTempFile("/src/.window.h.swp"))
	assert.True(t, isTempFile("/src/window.h~"))
	assert.False(t, isTempFile("/src/window.h"))
	assert.False(t, isTempFile("/out/bindings.dart"))
}

func TestWithin(t *testing.T) {
	root := t.TempDir()
	assert.True(t, within(root, filepath.Join(root, "a", "b.txt")))
	assert.True(t, within(root, root))
	assert.False(t, within(root, filepath.Dir(root)))
	assert.False(t, within(filepath.Join(root, "out"), filepath.Join(root, "outside.txt")))
}
