package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the workspace for .java files that were added,
// changed or removed outside the editor and reloads them.
type FileWatcher struct {
	codebase     *Codebase
	onChange     func(paths []string)
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewFileWatcher(c *Codebase, onChange func(paths []string)) *FileWatcher {
	return &FileWatcher{
		codebase:     c,
		onChange:     onChange,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	w.scan()
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if changed := w.scan(); len(changed) > 0 && w.onChange != nil {
				w.onChange(changed)
			}
		}
	}
}

// scan reloads what changed since the previous scan and returns those
// paths. The first scan only records modification times.
func (w *FileWatcher) scan() []string {
	first := len(w.modTimes) == 0
	current := make(map[string]bool)
	var changed []string

	root := w.codebase.RootDir()
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".java" {
			return nil
		}

		current[path] = true
		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			if first {
				return nil
			}
			if err := w.codebase.ScanFile(path); err != nil {
				log.Warningf("reload %s: %s", path, err)
				return nil
			}
			changed = append(changed, path)
		}
		return nil
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			changed = append(changed, path)
		}
	}
	return changed
}
