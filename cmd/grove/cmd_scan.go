package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dhamidi/grove/groovy/scanner"
	"github.com/dustin/go-humanize"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Parse every Groovy file under a directory, zip or jar",
		Long: `Parse every file matched by the project's include patterns in
parallel and print a summary. Files that fail, time out or contain
syntax errors are listed individually.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			path := p.RootDir
			if len(args) == 1 {
				path = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runScan(ctx, scanner.New(p, scanner.WithProgress(logProgress)), path, all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every file, not only failing ones")

	return cmd
}

func logProgress(r *scanner.FileResult, done, total int) {
	log.Debugf("[%d/%d] %s %s", done, total, r.Status, r.Path)
}

func runScan(ctx context.Context, s *scanner.Scanner, path string, all bool) error {
	report, err := s.Scan(ctx, path)
	if err != nil {
		return err
	}

	fmt.Println(formatScanFiles(report, all))
	fmt.Println()
	fmt.Println(formatScanSummary(report))

	totals := report.Totals()
	if failed := totals.Files - totals.ByStatus[scanner.StatusOK]; failed > 0 {
		return fmt.Errorf("%d of %d files did not parse cleanly", failed, totals.Files)
	}
	return nil
}

func formatScanFiles(report *scanner.Report, all bool) string {
	lines := []string{"Status|Path|Size|Diagnostics|Duration|Detail"}
	for _, f := range report.Files {
		if f.Status == scanner.StatusOK && !all {
			continue
		}
		detail := ""
		switch {
		case f.Err != nil:
			detail = f.Err.Error()
		case len(f.Diagnostics) > 0:
			detail = f.Diagnostics[0].Error()
		}
		lines = append(lines, fmt.Sprintf("%s|%s|%s|%d|%s|%s",
			f.Status,
			f.Path,
			humanize.Bytes(uint64(f.Bytes)),
			len(f.Diagnostics),
			f.Duration.Round(time.Microsecond),
			strings.ReplaceAll(detail, "|", "/")))
	}
	config := columnize.DefaultConfig()
	config.Empty = "<none>"
	return columnize.Format(lines, config)
}

func formatScanSummary(report *scanner.Report) string {
	totals := report.Totals()
	lines := []string{
		fmt.Sprintf("Files|%s", humanize.Comma(int64(totals.Files))),
		fmt.Sprintf("Source|%s", humanize.Bytes(uint64(totals.Bytes))),
		fmt.Sprintf("Tokens|%s", humanize.Comma(int64(totals.Tokens))),
		fmt.Sprintf("Nodes|%s", humanize.Comma(int64(totals.Nodes))),
		fmt.Sprintf("Diagnostics|%s", humanize.Comma(int64(totals.Diagnostics))),
	}
	for _, status := range scanner.Statuses {
		lines = append(lines, fmt.Sprintf("  %s|%s", status, humanize.Comma(int64(totals.ByStatus[status]))))
	}
	lines = append(lines, fmt.Sprintf("Duration|%s", report.Duration().Round(time.Millisecond)))
	return columnize.SimpleFormat(lines)
}
