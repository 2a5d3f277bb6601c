package bindgen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces bursts of file events into one regeneration.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Options

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// Sets are re-applied after the config file is reloaded.
	Sets []string

	// OnRun is called after every regeneration attempt.
	OnRun func(*Result, error)
}

// Watch generates once, then regenerates whenever a watched header
// directory, the template root or the config file changes. A failed run is
// logged and watching continues. Watch returns when ctx is done.
func Watch(ctx context.Context, cfg *Config, opts WatchOptions) error {
	log := opts.logger()
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer w.Close()
	watched := rewatch(w, nil, watchDirs(cfg), log)

	outDir := ""
	if opts.OutDir != "" {
		outDir, _ = filepath.Abs(opts.OutDir)
	}

	run := func() {
		res, err := Run(ctx, cfg, opts.Options)
		if err != nil {
			log.Error("generation failed", zap.Error(err))
		}
		if opts.OnRun != nil {
			opts.OnRun(res, err)
		}
	}
	run()

	var timer <-chan time.Time
	reload := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if isTempFile(ev.Name) || (outDir != "" && within(outDir, ev.Name)) {
				continue
			}
			log.Debug("change", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if cfg.Path != "" && filepath.Clean(ev.Name) == cfg.Path {
				reload = true
			}
			timer = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		case <-timer:
			timer = nil
			if reload {
				reload = false
				next, err := reloadConfig(cfg.Path, opts.Sets)
				if err != nil {
					log.Error("config reload failed", zap.Error(err))
					if opts.OnRun != nil {
						opts.OnRun(nil, err)
					}
					continue
				}
				cfg = next
				watched = rewatch(w, watched, watchDirs(cfg), log)
				log.Info("config reloaded", zap.String("path", cfg.Path))
			}
			run()
		}
	}
}

// dirWatcher is the part of *fsnotify.Watcher that rewatch needs.
type dirWatcher interface {
	Add(name string) error
	Remove(name string) error
}

// rewatch moves w from the old directory set to next and returns the
// directories now watched.
func rewatch(w dirWatcher, old, next []string, log *zap.Logger) []string {
	keep := make(map[string]bool, len(next))
	for _, dir := range next {
		keep[dir] = true
	}
	prev := make(map[string]bool, len(old))
	for _, dir := range old {
		prev[dir] = true
		if !keep[dir] {
			if err := w.Remove(dir); err != nil {
				log.Debug("cannot unwatch", zap.String("dir", dir), zap.Error(err))
			}
		}
	}
	watched := make([]string, 0, len(next))
	for _, dir := range next {
		if prev[dir] {
			watched = append(watched, dir)
			continue
		}
		if err := w.Add(dir); err != nil {
			log.Warn("cannot watch", zap.String("dir", dir), zap.Error(err))
			continue
		}
		watched = append(watched, dir)
	}
	return watched
}

func reloadConfig(path string, sets []string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := ApplyOverrides(cfg, sets); err != nil {
		return nil, err
	}
	return cfg, nil
}

// watchDirs lists existing directories holding inputs: entry header
// directories, include paths, the template tiers and the config directory.
func watchDirs(cfg *Config) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if dir == "" || seen[dir] {
			return
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	req := cfg.Request()
	for _, h := range req.EntryHeaders {
		add(filepath.Dir(h))
	}
	for _, p := range req.IncludePaths {
		add(p)
	}
	root := cfg.TemplateRoot()
	add(root)
	add(filepath.Join(root, "file"))
	add(filepath.Join(root, "partials"))
	if cfg.Path != "" {
		add(filepath.Dir(cfg.Path))
	}
	return dirs
}

func within(dir, path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// isTempFile matches the sink's in-flight files and common editor swap
// files.
func isTempFile(name string) bool {
	base := filepath.Base(name)
	if ok, _ := filepath.Match(".bindgen-*.tmp", base); ok {
		return true
	}
	if ok, _ := filepath.Match(".*.sw?", base); ok {
		return true
	}
	return len(base) > 0 && base[len(base)-1] == '~'
}
