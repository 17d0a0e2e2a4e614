// Package compiler chains the lexer and the parser and keeps the staged
// artifacts (tokens, RPN, symbol table) around for drivers to print.
package compiler

import (
	"github.com/agenthands/kbc/pkg/compiler/lexer"
	"github.com/agenthands/kbc/pkg/compiler/parser"
	"github.com/agenthands/kbc/pkg/compiler/symbols"
	"github.com/agenthands/kbc/pkg/core/value"
	"github.com/agenthands/kbc/pkg/vm"
)

type Compiler struct {
	tokens []lexer.Token
	prog   vm.Program
	syms   *symbols.Table
}

func New() *Compiler {
	return &Compiler{}
}

// Compile runs lexical and syntactic analysis and returns the RPN program.
func (c *Compiler) Compile(source string) (vm.Program, error) {
	tokens, err := lexer.NewScanner(source).Analyze()
	if err != nil {
		return nil, err
	}
	c.tokens = tokens

	prog, syms, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	c.prog = prog
	c.syms = syms
	return prog, nil
}

// Execute compiles and interprets source with a pre-populated input supply.
func (c *Compiler) Execute(source string, inputs []int64) ([]value.Value, *symbols.Table, error) {
	prog, err := c.Compile(source)
	if err != nil {
		return nil, nil, err
	}
	m := vm.New(c.syms)
	m.SetInput(inputs)
	return m.Run(prog)
}

// Tokens returns the token sequence of the last Compile.
func (c *Compiler) Tokens() []lexer.Token {
	return c.tokens
}

// Program returns the RPN stream of the last Compile.
func (c *Compiler) Program() vm.Program {
	return c.prog
}

// Symbols returns the declaration-time symbol table of the last Compile.
func (c *Compiler) Symbols() *symbols.Table {
	return c.syms
}
