package main

import (
	"fmt"
	"strconv"

	"github.com/dhamidi/grove/groovy/token"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var comments bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the tokens of a Groovy file",
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

			tokens := f.Tokens
			if comments {
				tokens = mergeComments(f.Tokens, f.Comments)
			}
			fmt.Println(formatTokens(tokens))
			return nil
		},
	}

	cmd.Flags().BoolVar(&comments, "comments", false, "include comments")

	return cmd
}

func formatTokens(tokens []token.Token) string {
	lines := []string{"Position\tKind\tLiteral"}
	for _, tok := range tokens {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s",
			tok.Span, tok.Kind, strconv.Quote(tok.Literal)))
	}
	config := columnize.DefaultConfig()
	config.Empty = "<none>"
	// Quoted literals never contain a raw tab.
	config.Delim = "\t"
	return columnize.Format(lines, config)
}

// mergeComments interleaves comment trivia with tokens by offset.
func mergeComments(tokens, comments []token.Token) []token.Token {
	result := make([]token.Token, 0, len(tokens)+len(comments))
	i, j := 0, 0
	for i < len(tokens) || j < len(comments) {
		if j < len(comments) && (i == len(tokens) || comments[j].Span.Start.Offset < tokens[i].Span.Start.Offset) {
			result = append(result, comments[j])
			j++
			continue
		}
		result = append(result, tokens[i])
		i++
	}
	return result
}
