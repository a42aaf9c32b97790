package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/packrat/format"
	"github.com/dhamidi/packrat/peg"
)

func newParseCmd() *cobra.Command {
	var flags grammarFlags
	var outputFormat string

	cmd := &cobra.Command{
		Use:           "parse [file|-]",
		Short:         "Parse input with a grammar and print the syntax tree",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			g, err := flags.compile(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			input, err := readInput(cmd, args)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}

			node, err := g.Parse(input)
			if err != nil {
				var syn *peg.SyntaxError
				if errors.As(err, &syn) {
					if encErr := encoder.EncodeError(syn); encErr != nil {
						return fmt.Errorf("encode: %w", encErr)
					}
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
				return err
			}

			if err := encoder.Encode(node); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (json, tree)")

	return cmd
}
