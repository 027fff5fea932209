package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadFromWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	p, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "", p.ConfigFile)
	assert.Equal(t, "4.0.0", p.Version.String())
	assert.Equal(t, DefaultTimeout, p.Timeout)
	assert.Equal(t, DefaultWorkers, p.Workers)
	assert.True(t, p.ScriptMethods)
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `
language_version = "3.0.9"
include          = ["*.groovy"]
exclude          = ["build/*"]
timeout          = "250ms"
workers          = 2
max_errors       = 5
script_methods   = false
`)

	p, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), p.ConfigFile)
	assert.Equal(t, "3.0.9", p.Version.String())
	assert.Equal(t, []string{"*.groovy"}, p.Include)
	assert.Equal(t, 250*time.Millisecond, p.Timeout)
	assert.Equal(t, 2, p.Workers)
	assert.Equal(t, 5, p.MaxErrors)
	assert.False(t, p.ScriptMethods)
	assert.Len(t, p.ParserOptions(), 3)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"syntax", `workers = `, []string{"grove.hcl"}},
		{"unknown attribute", `color = "red"`, []string{"color"}},
		{"bad version", `language_version = "four"`, []string{"language_version"}},
		{"several", "timeout = \"soon\"\nworkers = -1\nmax_errors = -3", []string{"timeout", "workers", "max_errors"}},
		{"zero timeout", `timeout = "0s"`, []string{"must be positive"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(".", FileName, []byte(tt.src))
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	p := Default(".")
	p.Exclude = []string{"build/*", "*Generated.groovy"}

	tests := []struct {
		path string
		want bool
	}{
		{"build.gradle", true},
		{"src/main/groovy/App.groovy", true},
		{"src/App.java", false},
		{"build/tmp/Out.groovy", false},
		{"src/FooGenerated.groovy", false},
		{"scripts/deploy.gsh", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Matches(tt.path))
		})
	}
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "build.gradle"), "apply plugin: 'groovy'")
	writeFile(t, filepath.Join(dir, "src", "App.groovy"), "println 'hi'")
	writeFile(t, filepath.Join(dir, "src", "Lib.java"), "class Lib {}")
	writeFile(t, filepath.Join(dir, ".git", "hook.groovy"), "")

	p := Default(dir)
	files, err := p.SourceFiles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "build.gradle"),
		filepath.Join(dir, "src", "App.groovy"),
	}, files)
}
