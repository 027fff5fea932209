package scanner

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestScanDirectory(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"build.gradle":        "plugins { id 'groovy' }\n",
		"src/App.groovy":      "class App {\n  static void main(String[] args) { println 'hi' }\n}\n",
		"src/Broken.groovy":   "def x = (1 +\n",
		"src/Readme.md":       "# not groovy",
		".hidden/Skip.groovy": "x",
	})

	var mu sync.Mutex
	var seen []string
	s := New(project.Default(dir), WithProgress(func(r *FileResult, done, total int) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Path)
		assert.Equal(t, 3, total)
		assert.LessOrEqual(t, done, total)
	}))

	report, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, report.Files, 3)
	assert.Len(t, seen, 3)

	byName := make(map[string]*FileResult)
	for _, f := range report.Files {
		byName[filepath.Base(f.Path)] = f
	}
	assert.Equal(t, StatusOK, byName["build.gradle"].Status)
	assert.Equal(t, StatusOK, byName["App.groovy"].Status)
	assert.Equal(t, StatusErrors, byName["Broken.groovy"].Status)
	assert.NotEmpty(t, byName["Broken.groovy"].Diagnostics)
	assert.Nil(t, byName["App.groovy"].File)

	totals := report.Totals()
	assert.Equal(t, 3, totals.Files)
	assert.Equal(t, 2, totals.ByStatus[StatusOK])
	assert.Equal(t, 1, totals.ByStatus[StatusErrors])
	assert.Positive(t, totals.Tokens)
	assert.Positive(t, totals.Nodes)
	assert.False(t, report.EndedAt.Before(report.StartedAt))

	done, total := s.Progress()
	assert.Equal(t, 3, done)
	assert.Equal(t, 3, total)

	err = report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken.groovy")
}

func TestScanSingleFileKeepsParse(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.groovy": "println 1\n"})
	s := New(project.Default(dir), KeepFiles())

	report, err := s.Scan(context.Background(), filepath.Join(dir, "a.groovy"))
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	require.NotNil(t, report.Files[0].File)
	assert.Equal(t, parser.KindCompilationUnit, report.Files[0].File.Root.Kind)
	assert.NoError(t, report.Err())
}

func TestScanTimeout(t *testing.T) {
	dir := writeTree(t, map[string]string{"slow.groovy": "x", "fast.groovy": "y"})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	p := project.Default(dir)
	p.Timeout = 20 * time.Millisecond
	s := New(p, WithParseFunc(func(name string, src []byte, opts ...parser.Option) *groovy.File {
		if filepath.Base(name) == "slow.groovy" {
			<-release
		}
		return groovy.ParseFile(name, src, opts...)
	}))

	report, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, report.Files, 2)
	assert.Equal(t, StatusOK, report.Files[0].Status)
	assert.Equal(t, StatusTimeout, report.Files[1].Status)
	assert.True(t, errors.Is(report.Files[1].Err, ErrTimeout))
	assert.ErrorIs(t, report.Err(), ErrTimeout)
}

func TestScanCancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.groovy": "x", "b.groovy": "y"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(project.Default(dir)).Scan(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Files)
}

func TestScanMissingPath(t *testing.T) {
	_, err := New(project.Default(".")).Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestScanUnreadableFile(t *testing.T) {
	report, err := New(project.Default(".")).ScanFiles(context.Background(), []string{
		filepath.Join(t.TempDir(), "gone.groovy"),
	})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Equal(t, StatusFailed, report.Files[0].Status)
	assert.ErrorIs(t, report.Files[0].Err, os.ErrNotExist)
}

func TestScanArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"lib/Util.groovy": "class Util {}\n",
		"lib/Util.class":  "\xca\xfe\xba\xbe",
		"run.gsh":         "foo bar\n",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	report, err := New(project.Default(".")).Scan(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, report.Files, 2)
	assert.Equal(t, path+"!lib/Util.groovy", report.Files[0].Path)
	assert.Equal(t, path+"!run.gsh", report.Files[1].Path)
	for _, r := range report.Files {
		assert.Equal(t, StatusOK, r.Status)
	}
}
