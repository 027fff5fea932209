package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/project"
	"github.com/spf13/cobra"
)

// Settings given on the command line win over grove.hcl.
var projectFlags struct {
	dir             string
	languageVersion string
	workers         int
	timeout         time.Duration
	maxErrors       int
	noScriptMethods bool
}

func addProjectFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&projectFlags.dir, "project", "C", ".", "project root containing grove.hcl")
	f.StringVar(&projectFlags.languageVersion, "language-version", "", "grammar version, e.g. 3.0.0")
	f.IntVar(&projectFlags.workers, "workers", 0, "files parsed in parallel")
	f.DurationVar(&projectFlags.timeout, "timeout", 0, "timeout per file")
	f.IntVar(&projectFlags.maxErrors, "max-errors", 0, "stop reporting after this many diagnostics per file")
	f.BoolVar(&projectFlags.noScriptMethods, "no-script-methods", false, "reject method declarations at script level")
}

func loadProject(cmd *cobra.Command) (*project.Project, error) {
	p, err := project.LoadFrom(projectFlags.dir)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("language-version") {
		v, err := semver.NewVersion(projectFlags.languageVersion)
		if err != nil {
			return nil, fmt.Errorf("--language-version: %w", err)
		}
		p.Version = v
	}
	if flags.Changed("workers") {
		if projectFlags.workers < 1 {
			return nil, fmt.Errorf("--workers must be at least 1")
		}
		p.Workers = projectFlags.workers
	}
	if flags.Changed("timeout") {
		p.Timeout = projectFlags.timeout
	}
	if flags.Changed("max-errors") {
		p.MaxErrors = projectFlags.maxErrors
	}
	if flags.Changed("no-script-methods") {
		p.ScriptMethods = !projectFlags.noScriptMethods
	}
	return p, nil
}

// syntaxError summarises diagnostics that were already printed. Version
// warnings alone do not fail a command.
func syntaxError(diags parser.Diagnostics) error {
	n := 0
	for _, d := range diags {
		if d.Kind != parser.SyntaxUnavailable {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	if n == 1 {
		return fmt.Errorf("1 syntax error")
	}
	return fmt.Errorf("%d syntax errors", n)
}

// parseFile reads and parses one file with the project's settings.
func parseFile(p *project.Project, filename string) (*groovy.File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return groovy.ParseFile(filename, data, p.ParserOptions()...), nil
}
