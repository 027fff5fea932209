package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/grove/format"
	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var expression bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Groovy file and dump the syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			f, err := parseFile(p, args[0])
			if err != nil {
				return err
			}

			root := f.Root
			diags := f.Diagnostics
			if expression {
				root, diags = parser.ParseExpression(f.Tokens, append(p.ParserOptions(), parser.WithFile(f.Name))...)
			}

			switch outputFormat {
			case "json":
				enc := format.NewASTJSONEncoder(os.Stdout)
				if expression {
					err = enc.EncodeNode(root)
				} else {
					err = enc.Encode(f)
				}
				if err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "sexp":
				fmt.Println(root.String())
			case "positions":
				fmt.Println(root.StringWithPositions())
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if outputFormat != "json" {
				shown := &groovy.File{Name: f.Name, Source: f.Source, Diagnostics: diags}
				if err := format.NewDiagnosticsEncoder(os.Stderr).Encode(shown); err != nil {
					return err
				}
			}
			if outputFormat == "json" {
				return nil
			}
			return syntaxError(diags)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "sexp", "output format (sexp, positions, json)")
	cmd.Flags().BoolVarP(&expression, "expression", "e", false, "parse the file as a single expression")

	return cmd
}
