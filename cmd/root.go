package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kbc",
	Short: "kbc — compiler and interpreter for the KB language",
	Long: `kbc compiles KB source to a postfix (RPN) instruction stream and can
execute it on the built-in stack machine.

Commands:
  build  Compile a .kb source file and print its tokens and RPN
  run    Compile and execute, printing every stage and the final symbol table
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(BuildCmd, RunCmd)
}
