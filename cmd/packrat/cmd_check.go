package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/packrat/ebnf/grammar"
)

func newCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check <grammar.ebnf>",
		Short:         "Parse, verify and compile an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Load(args[0])
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return err
			}

			if startProduction == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d productions\n", args[0], len(g))
				return nil
			}

			compiled, err := grammar.Compile(g, startProduction)
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d productions, start %s\n", args[0], len(compiled.Productions()), compiled.Start())
			return nil
		},
	}

	cmd.Flags().StringVarP(&startProduction, "start", "s", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}
