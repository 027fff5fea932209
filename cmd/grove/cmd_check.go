package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/grove/format"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var excerpt bool
	var colorMode string

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Report syntax errors in Groovy files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}

			var opts []format.DiagnosticsOption
			if excerpt {
				opts = append(opts, format.WithExcerpt())
			}
			switch colorMode {
			case "auto":
			case "always":
				opts = append(opts, format.WithColor(true))
			case "never":
				color.NoColor = true
			default:
				return fmt.Errorf("unknown color mode: %s", colorMode)
			}

			var all parser.Diagnostics
			enc := format.NewDiagnosticsEncoder(os.Stdout, opts...)
			for _, filename := range args {
				f, err := parseFile(p, filename)
				if err != nil {
					return err
				}
				if err := enc.Encode(f); err != nil {
					return err
				}
				all = append(all, f.Diagnostics...)
			}
			return syntaxError(all)
		},
	}

	cmd.Flags().BoolVarP(&excerpt, "excerpt", "x", true, "show the source line under each diagnostic")
	cmd.Flags().StringVar(&colorMode, "color", "auto", "colorize output (auto, always, never)")

	return cmd
}
