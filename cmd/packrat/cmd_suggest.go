package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/packrat/peg"
)

func newSuggestCmd() *cobra.Command {
	var flags grammarFlags
	var cursor int

	cmd := &cobra.Command{
		Use:           "suggest [file|-]",
		Short:         "Print what the grammar accepts at a position of the input",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := flags.compile(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			input, err := readInput(cmd, args)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			if cursor < 0 || cursor > len(input) {
				cursor = len(input)
			}

			out := cmd.OutOrStdout()
			at, candidates := g.Suggest(input[:cursor], 0)
			if at < 0 || len(candidates) == 0 {
				fmt.Fprintln(out, "no suggestions")
				return nil
			}
			line, col := peg.LineColumn(input, at)
			fmt.Fprintf(out, "at %d:%d (offset %d)\n", line, col, at)
			for _, c := range candidates {
				fmt.Fprintln(out, c)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&cursor, "cursor", -1, "byte offset to complete at (default end of input)")

	return cmd
}
