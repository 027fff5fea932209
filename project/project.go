package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/ryanuber/go-glob"
)

// FileName is the configuration file looked up at the project root.
const FileName = "grove.hcl"

// Defaults used when grove.hcl is absent or leaves a value unset. Glob
// stars match across directories, so "*.groovy" finds files at any depth.
var (
	DefaultInclude   = []string{"*.groovy", "*.gradle", "*.gvy", "*.gy", "*.gsh"}
	DefaultTimeout   = 10 * time.Second
	DefaultWorkers   = 8
	DefaultMaxErrors = 100
)

// Config mirrors the attributes accepted in grove.hcl.
type Config struct {
	LanguageVersion string   `hcl:"language_version,optional"`
	Include         []string `hcl:"include,optional"`
	Exclude         []string `hcl:"exclude,optional"`
	Timeout         string   `hcl:"timeout,optional"`
	Workers         int      `hcl:"workers,optional"`
	MaxErrors       int      `hcl:"max_errors,optional"`
	ScriptMethods   *bool    `hcl:"script_methods,optional"`
}

// Project is a directory tree of Groovy sources together with the
// settings that control how they are parsed.
type Project struct {
	RootDir       string
	ConfigFile    string // empty when no grove.hcl was found
	Version       *semver.Version
	Include       []string
	Exclude       []string
	Timeout       time.Duration
	Workers       int
	MaxErrors     int
	ScriptMethods bool
}

// Default returns a project rooted at rootDir with default settings.
func Default(rootDir string) *Project {
	return &Project{
		RootDir:       rootDir,
		Version:       parser.DefaultGrammarVersion,
		Include:       DefaultInclude,
		Timeout:       DefaultTimeout,
		Workers:       DefaultWorkers,
		MaxErrors:     DefaultMaxErrors,
		ScriptMethods: true,
	}
}

// Load reads the project in the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom reads rootDir/grove.hcl. A missing file is not an error: the
// project then uses the defaults.
func LoadFrom(rootDir string) (*Project, error) {
	path := filepath.Join(rootDir, FileName)
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(rootDir), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(rootDir, path, src)
}

// Decode builds a project from the contents of a configuration file.
// Syntax errors come back as hcl.Diagnostics; invalid values are
// collected into a single multierror.
func Decode(rootDir, filename string, src []byte) (*Project, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, nil, &cfg); err != nil {
		return nil, err
	}

	p := Default(rootDir)
	p.ConfigFile = filename

	var result *multierror.Error
	if cfg.LanguageVersion != "" {
		v, err := semver.NewVersion(cfg.LanguageVersion)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("language_version %q: %w", cfg.LanguageVersion, err))
		} else {
			p.Version = v
		}
	}
	if len(cfg.Include) > 0 {
		p.Include = cfg.Include
	}
	p.Exclude = cfg.Exclude
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		switch {
		case err != nil:
			result = multierror.Append(result, fmt.Errorf("timeout %q: %w", cfg.Timeout, err))
		case d <= 0:
			result = multierror.Append(result, fmt.Errorf("timeout %q: must be positive", cfg.Timeout))
		default:
			p.Timeout = d
		}
	}
	switch {
	case cfg.Workers < 0:
		result = multierror.Append(result, fmt.Errorf("workers: must not be negative, got %d", cfg.Workers))
	case cfg.Workers > 0:
		p.Workers = cfg.Workers
	}
	switch {
	case cfg.MaxErrors < 0:
		result = multierror.Append(result, fmt.Errorf("max_errors: must not be negative, got %d", cfg.MaxErrors))
	case cfg.MaxErrors > 0:
		p.MaxErrors = cfg.MaxErrors
	}
	if cfg.ScriptMethods != nil {
		p.ScriptMethods = *cfg.ScriptMethods
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return p, nil
}

// Matches reports whether the slash-separated path rel, relative to the
// project root, is included and not excluded.
func (p *Project) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range p.Exclude {
		if glob.Glob(pattern, rel) {
			return false
		}
	}
	for _, pattern := range p.Include {
		if glob.Glob(pattern, rel) {
			return true
		}
	}
	return false
}

// SourceFiles lists the files under the root that Matches accepts,
// skipping hidden directories.
func (p *Project) SourceFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(p.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != p.RootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(p.RootDir, path)
		if err != nil {
			return err
		}
		if p.Matches(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", p.RootDir, err)
	}
	return files, nil
}

// ParserOptions turns the project settings into parser options.
func (p *Project) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithGrammarVersion(p.Version),
		parser.WithScriptMethods(p.ScriptMethods),
		parser.WithMaxErrors(p.MaxErrors),
	}
}
