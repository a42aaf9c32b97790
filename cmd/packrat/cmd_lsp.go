package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/packrat/lsp"
)

func newLSPCmd() *cobra.Command {
	var flags grammarFlags
	var languageID string
	var triggers []string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server for a grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := flags.compile(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts := []lsp.Option{lsp.WithTriggerCharacters(triggers...)}
			if languageID != "" {
				opts = append(opts, lsp.WithLanguageID(languageID))
			}
			server := lsp.NewServer(version, g, opts...)
			return server.RunStdio()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&languageID, "language-id", "", "only check documents with this language identifier")
	cmd.Flags().StringSliceVar(&triggers, "trigger", nil, "characters that trigger completion")

	return cmd
}
