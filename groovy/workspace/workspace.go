// Package workspace keeps the parse trees of a project's Groovy files up
// to date as they change on disk or in an editor.
package workspace

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/groovy/scanner"
	"github.com/dhamidi/grove/project"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("grove.workspace")

// CacheSize bounds the number of parse results kept for reuse.
const CacheSize = 512

type FileInfo struct {
	Path    string
	Content []byte
	File    *groovy.File
}

func (f *FileInfo) Diagnostics() parser.Diagnostics {
	if f == nil || f.File == nil {
		return nil
	}
	return f.File.Diagnostics
}

// cacheKey identifies a parse by file and content; diagnostics carry the
// file name, so equal content under another name is parsed again.
type cacheKey struct {
	path string
	sum  [sha256.Size]byte
}

type Workspace struct {
	mu      sync.RWMutex
	project *project.Project
	files   map[string]*FileInfo
	cache   *lru.Cache[cacheKey, *groovy.File]
	parses  int
}

func New(p *project.Project) *Workspace {
	cache, err := lru.New[cacheKey, *groovy.File](CacheSize)
	if err != nil {
		panic(err)
	}
	return &Workspace{
		project: p,
		files:   make(map[string]*FileInfo),
		cache:   cache,
	}
}

func (w *Workspace) RootDir() string {
	return w.project.RootDir
}

func (w *Workspace) Project() *project.Project {
	return w.project
}

// Includes reports whether path belongs to the project's sources.
func (w *Workspace) Includes(path string) bool {
	rel, err := filepath.Rel(w.project.RootDir, path)
	if err != nil {
		return false
	}
	return w.project.Matches(rel)
}

// ScanAll parses every source file of the project in parallel and
// replaces the files it finds.
func (w *Workspace) ScanAll(ctx context.Context) (*scanner.Report, error) {
	s := scanner.New(w.project, scanner.KeepFiles())
	report, err := s.Scan(ctx, w.project.RootDir)
	if err != nil {
		return report, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, res := range report.Files {
		if res.File == nil {
			log.Warningf("%s: %s", res.Path, res.Err)
			continue
		}
		w.parses++
		w.storeLocked(res.Path, res.File)
	}
	log.Infof("scanned %d files in %s", len(report.Files), report.Duration())
	return report, nil
}

func (w *Workspace) ScanFile(path string) (*FileInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return w.UpdateFile(path, content), nil
}

// UpdateFile replaces the content of path and returns the new parse. An
// unchanged file is served from the cache.
func (w *Workspace) UpdateFile(path string, content []byte) *FileInfo {
	key := cacheKey{path: path, sum: sha256.Sum256(content)}
	if f, ok := w.cache.Get(key); ok {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.storeLocked(path, f)
	}

	f := groovy.ParseFile(path, content, w.project.ParserOptions()...)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.parses++
	return w.storeLocked(path, f)
}

func (w *Workspace) storeLocked(path string, f *groovy.File) *FileInfo {
	w.cache.Add(cacheKey{path: path, sum: sha256.Sum256(f.Source)}, f)
	info := &FileInfo{Path: path, Content: f.Source, File: f}
	w.files[path] = info
	return info
}

func (w *Workspace) RemoveFile(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[path]
	delete(w.files, path)
	return ok
}

func (w *Workspace) GetFile(path string) *FileInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Paths returns the known files in sorted order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// AllDiagnostics returns the diagnostics of every file that has any.
func (w *Workspace) AllDiagnostics() map[string]parser.Diagnostics {
	w.mu.RLock()
	defer w.mu.RUnlock()
	all := make(map[string]parser.Diagnostics)
	for path, f := range w.files {
		if diags := f.Diagnostics(); len(diags) > 0 {
			all[path] = diags
		}
	}
	return all
}

func (w *Workspace) Symbols(path string) []parser.Symbol {
	f := w.GetFile(path)
	if f == nil || f.File == nil {
		return nil
	}
	return f.File.Outline()
}

// Parses counts the parses performed so far, cache hits excluded.
func (w *Workspace) Parses() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.parses
}
