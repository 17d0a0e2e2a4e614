package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenthands/kbc/pkg/compiler"
)

// build: compile only, print the staged artifacts
var BuildCmd = &cobra.Command{
	Use:   "build <source.kb>",
	Short: "Compile a KB source file and print its tokens and RPN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		c := compiler.New()
		prog, err := c.Compile(string(src))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Tokens:")
		for _, tok := range c.Tokens() {
			fmt.Fprintf(out, "  %d:%d  %s\n", tok.Line, tok.Column, tok)
		}
		fmt.Fprintln(out, "RPN:")
		fmt.Fprint(out, prog.Dump())
		return nil
	},
}
