package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc is called after a watched file was parsed again. info is nil
// when the file was removed.
type ChangeFunc func(path string, info *FileInfo)

// FileWatcher re-parses project files when they change on disk.
type FileWatcher struct {
	workspace *Workspace
	onChange  ChangeFunc
	fs        *fsnotify.Watcher
	wg        sync.WaitGroup
}

func NewFileWatcher(w *Workspace, onChange ChangeFunc) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		workspace: w,
		onChange:  onChange,
		fs:        fsw,
	}, nil
}

// Start watches every directory under the project root. Events are
// handled on a single goroutine until Stop.
func (w *FileWatcher) Start() error {
	if err := w.addTree(w.workspace.RootDir()); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.run()
	return nil
}

func (w *FileWatcher) Stop() error {
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *FileWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func (w *FileWatcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (w *FileWatcher) handle(ev fsnotify.Event) {
	path := ev.Name
	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		if w.workspace.RemoveFile(path) {
			log.Debugf("removed %s", path)
			w.notify(path, nil)
		}
	case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
		if isDir(path) {
			if ev.Has(fsnotify.Create) {
				w.created(path)
			}
			return
		}
		w.rescan(path)
	}
}

// created picks up a new directory together with any files written to
// it before the watch was in place.
func (w *FileWatcher) created(dir string) {
	if err := w.addTree(dir); err != nil {
		log.Errorf("watch %s: %s", dir, err)
	}
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			w.rescan(path)
		}
		return nil
	})
}

func (w *FileWatcher) rescan(path string) {
	if !w.workspace.Includes(path) {
		return
	}
	info, err := w.workspace.ScanFile(path)
	if err != nil {
		log.Warningf("%s", err)
		return
	}
	log.Debugf("parsed %s", path)
	w.notify(path, info)
}

func (w *FileWatcher) notify(path string, info *FileInfo) {
	if w.onChange != nil {
		w.onChange(path, info)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
