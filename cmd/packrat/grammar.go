package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/dhamidi/packrat/ebnf/grammar"
)

// grammarFlags are shared by the commands that need a compiled grammar.
type grammarFlags struct {
	path         string
	start        string
	inline       []string
	noWhitespace bool
	prefix       bool
}

func (f *grammarFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "grammar", "g", "", "EBNF grammar file")
	cmd.Flags().StringVarP(&f.start, "start", "s", "", "start production")
	cmd.Flags().StringSliceVar(&f.inline, "inline", nil, "productions replaced by their children in the tree")
	cmd.Flags().BoolVar(&f.noWhitespace, "no-whitespace", false, "do not skip whitespace between tokens")
	cmd.Flags().BoolVar(&f.prefix, "prefix", false, "accept input that continues after the start production")
	cmd.MarkFlagRequired("grammar")
	cmd.MarkFlagRequired("start")
}

func (f *grammarFlags) compile(w io.Writer) (*grammar.Grammar, error) {
	g, err := grammar.Load(f.path)
	if err != nil {
		printErrors(w, err)
		return nil, err
	}

	var opts []grammar.Option
	if len(f.inline) > 0 {
		opts = append(opts, grammar.WithInline(f.inline...))
	}
	if f.noWhitespace {
		opts = append(opts, grammar.WithoutWhitespace())
	}
	if f.prefix {
		opts = append(opts, grammar.WithoutEOF())
	}

	compiled, err := grammar.Compile(g, f.start, opts...)
	if err != nil {
		printErrors(w, err)
		return nil, err
	}
	return compiled, nil
}

// readInput reads the named file, or standard input for "-" or no
// argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// printErrors prints every error of the lists the ebnf package returns on
// a line of its own.
func printErrors(w io.Writer, err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(w, err)
}
