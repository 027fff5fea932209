package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/grove/format"
	"github.com/spf13/cobra"
)

func newOutlineCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "List the declarations of a Groovy file",
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

			var encoder format.Encoder
			switch outputFormat {
			case "line":
				encoder = format.NewLineEncoder(os.Stdout)
			case "json":
				encoder = format.NewOutlineJSONEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			if err := encoder.Encode(f); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (line, json)")

	return cmd
}
