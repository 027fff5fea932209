// Package scanner parses many Groovy files in parallel and summarises the
// outcome per file.
package scanner

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/project"
	"github.com/hashicorp/go-multierror"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("grove.scanner")

type Status string

const (
	StatusOK      Status = "ok"
	StatusErrors  Status = "errors"
	StatusTimeout Status = "timeout"
	StatusFailed  Status = "failed"
)

// Statuses lists every status in report order.
var Statuses = []Status{StatusOK, StatusErrors, StatusTimeout, StatusFailed}

// FileResult is the outcome of parsing one file. File is nil unless the
// parse finished.
type FileResult struct {
	Path        string
	Status      Status
	Bytes       int
	Tokens      int
	Nodes       int
	Diagnostics parser.Diagnostics
	Duration    time.Duration
	Err         error
	File        *groovy.File
}

// Report collects the results of one scan, sorted by path.
type Report struct {
	Files     []*FileResult
	StartedAt time.Time
	EndedAt   time.Time
}

func (r *Report) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

type Totals struct {
	Files       int
	Bytes       int
	Tokens      int
	Nodes       int
	Diagnostics int
	ByStatus    map[Status]int
}

func (r *Report) Totals() Totals {
	t := Totals{ByStatus: make(map[Status]int)}
	for _, f := range r.Files {
		t.Files++
		t.Bytes += f.Bytes
		t.Tokens += f.Tokens
		t.Nodes += f.Nodes
		t.Diagnostics += len(f.Diagnostics)
		t.ByStatus[f.Status]++
	}
	return t
}

// Err aggregates every file that failed, timed out or produced syntax
// errors. It returns nil for a clean scan.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, f := range r.Files {
		switch f.Status {
		case StatusFailed, StatusTimeout:
			result = multierror.Append(result, fmt.Errorf("%s: %w", f.Path, f.Err))
		case StatusErrors:
			result = multierror.Append(result, f.Diagnostics.Err())
		}
	}
	return result.ErrorOrNil()
}

// ErrTimeout is wrapped by the error of a file whose parse took longer
// than the configured timeout.
var ErrTimeout = errors.New("parse timed out")

type ParseFunc func(name string, src []byte, opts ...parser.Option) *groovy.File

type Option func(*Scanner)

// WithParseFunc replaces groovy.ParseFile.
func WithParseFunc(fn ParseFunc) Option {
	return func(s *Scanner) {
		s.parse = fn
	}
}

// WithProgress registers a callback invoked after each file with the
// number of files done so far and the total. Calls are serialised.
func WithProgress(fn func(r *FileResult, done, total int)) Option {
	return func(s *Scanner) {
		s.onProgress = fn
	}
}

// KeepFiles retains the parsed files in the results.
func KeepFiles() Option {
	return func(s *Scanner) {
		s.keepFiles = true
	}
}

type Scanner struct {
	project    *project.Project
	parse      ParseFunc
	onProgress func(*FileResult, int, int)
	keepFiles  bool

	mu       sync.Mutex
	progress int
	total    int
}

func New(p *project.Project, opts ...Option) *Scanner {
	s := &Scanner{
		project: p,
		parse:   groovy.ParseFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Progress reports how many files of the running scan are done.
func (s *Scanner) Progress() (done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress, s.total
}

// source is something the scanner can read and parse.
type source struct {
	name string
	read func() ([]byte, error)
}

func fileSource(path string) source {
	return source{name: path, read: func() ([]byte, error) { return os.ReadFile(path) }}
}

// Scan parses path: every matching file below a directory, every
// matching entry of a .zip or .jar archive, or a single file. Only a
// cancelled context or an unreadable root make Scan fail; problems with
// individual files are recorded in the report.
func (s *Scanner) Scan(ctx context.Context, path string) (*Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	switch {
	case info.IsDir():
		p := *s.project
		p.RootDir = path
		files, err := p.SourceFiles()
		if err != nil {
			return nil, err
		}
		return s.ScanFiles(ctx, files)
	case filepath.Ext(path) == ".zip" || filepath.Ext(path) == ".jar":
		return s.scanArchive(ctx, path)
	}
	return s.ScanFiles(ctx, []string{path})
}

// ScanFiles parses the given files.
func (s *Scanner) ScanFiles(ctx context.Context, files []string) (*Report, error) {
	sources := make([]source, len(files))
	for i, f := range files {
		sources[i] = fileSource(f)
	}
	return s.run(ctx, sources)
}

func (s *Scanner) scanArchive(ctx context.Context, path string) (*Report, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer r.Close()

	var sources []source
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !s.project.Matches(f.Name) {
			continue
		}
		sources = append(sources, source{
			name: path + "!" + f.Name,
			read: func() ([]byte, error) {
				rc, err := f.Open()
				if err != nil {
					return nil, err
				}
				defer rc.Close()
				return io.ReadAll(rc)
			},
		})
	}
	return s.run(ctx, sources)
}

func (s *Scanner) run(ctx context.Context, sources []source) (*Report, error) {
	s.mu.Lock()
	s.progress, s.total = 0, len(sources)
	s.mu.Unlock()

	report := &Report{StartedAt: time.Now()}
	results := make([]*FileResult, len(sources))

	workers := s.project.Workers
	if workers <= 0 {
		workers = project.DefaultWorkers
	}
	log.Infof("scanning %d files with %d workers", len(sources), workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := s.scanSource(gctx, src)
			results[i] = res
			s.finished(res)
			return nil
		})
	}
	err := g.Wait()

	for _, res := range results {
		if res != nil {
			report.Files = append(report.Files, res)
		}
	}
	sort.Slice(report.Files, func(i, j int) bool {
		return report.Files[i].Path < report.Files[j].Path
	})
	report.EndedAt = time.Now()
	if err != nil {
		return report, fmt.Errorf("scan: %w", err)
	}
	return report, nil
}

func (s *Scanner) finished(res *FileResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress++
	if s.onProgress != nil {
		s.onProgress(res, s.progress, s.total)
	}
}

// scanSource reads and parses one source under the per-file timeout. A
// parse that overruns is abandoned; its goroutine finishes on its own
// since parsing always terminates.
func (s *Scanner) scanSource(ctx context.Context, src source) *FileResult {
	start := time.Now()
	res := &FileResult{Path: src.name}

	data, err := src.read()
	if err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("read: %w", err)
		res.Duration = time.Since(start)
		log.Errorf("%s: %s", src.name, err)
		return res
	}
	res.Bytes = len(data)

	timeout := s.project.Timeout
	if timeout <= 0 {
		timeout = project.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan *groovy.File, 1)
	go func() {
		done <- s.parse(src.name, data, s.project.ParserOptions()...)
	}()

	select {
	case f := <-done:
		res.Duration = time.Since(start)
		res.Tokens = len(f.Tokens)
		res.Nodes = f.Root.Count()
		res.Diagnostics = f.Diagnostics
		res.Status = StatusOK
		if f.HasErrors() {
			res.Status = StatusErrors
		}
		if s.keepFiles {
			res.File = f
		}
		log.Debugf("%s: %s in %s", src.name, res.Status, res.Duration)
	case <-ctx.Done():
		res.Duration = time.Since(start)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			res.Status = StatusTimeout
			res.Err = fmt.Errorf("%w after %s", ErrTimeout, timeout)
			log.Warningf("%s: %s", src.name, res.Err)
		} else {
			res.Status = StatusFailed
			res.Err = ctx.Err()
		}
	}
	return res
}
