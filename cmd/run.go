package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agenthands/kbc/pkg/compiler"
	"github.com/agenthands/kbc/pkg/vm"
)

// run: full pipeline — tokens, RPN, execution output, final symbol table.
// Trailing integer arguments pre-populate the input supply; once it runs dry
// the machine prompts on stdin.
var RunCmd = &cobra.Command{
	Use:   "run <source.kb> [input ...]",
	Short: "Compile and execute a KB source file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		inputs := make([]int64, 0, len(args)-1)
		for _, arg := range args[1:] {
			v, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("input value %q is not an integer", arg)
			}
			inputs = append(inputs, v)
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

		m := vm.New(c.Symbols())
		m.SetInput(inputs)
		m.In = cmd.InOrStdin()
		m.Prompt = out

		output, table, err := m.Run(prog)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Output:")
		for _, v := range output {
			fmt.Fprintf(out, "  %s\n", v.Format())
		}
		fmt.Fprintln(out, "Symbol table:")
		fmt.Fprint(out, table.Dump())
		return nil
	},
}
