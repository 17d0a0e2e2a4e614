package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenthands/kbc/pkg/compiler/lexer"
	"github.com/agenthands/kbc/pkg/compiler/parser"
	"github.com/agenthands/kbc/pkg/compiler/symbols"
	"github.com/agenthands/kbc/pkg/core/value"
	"github.com/agenthands/kbc/pkg/vm"
)

func parse(t *testing.T, src string) (vm.Program, *symbols.Table) {
	t.Helper()
	tokens, err := lexer.NewScanner(src).Analyze()
	require.NoError(t, err)
	prog, table, err := parser.Parse(tokens)
	require.NoError(t, err)
	return prog, table
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	tokens, err := lexer.NewScanner(src).Analyze()
	require.NoError(t, err)
	_, _, err = parser.Parse(tokens)
	require.Error(t, err)
	return err
}

func TestEmptyProgram(t *testing.T) {
	prog, table := parse(t, "")
	require.Empty(t, prog)
	require.Equal(t, 0, table.Len())
}

func TestDeclarationWithInitialiser(t *testing.T) {
	prog, table := parse(t, "int x = 2 + 3 * 4;")
	require.Equal(t, vm.Program{
		vm.Ident("x"),
		vm.Literal(value.Int(2)),
		vm.Literal(value.Int(3)),
		vm.Literal(value.Int(4)),
		vm.Operation(vm.OpMultiply),
		vm.Operation(vm.OpPlus),
		vm.Operation(vm.OpAssign),
	}, prog)

	sym := table.Lookup("x")
	require.NotNil(t, sym)
	require.Equal(t, symbols.Int, sym.Base)
	require.False(t, sym.IsArray)
}

func TestBareDeclarationEmitsNothing(t *testing.T) {
	prog, table := parse(t, "float f;")
	require.Empty(t, prog)
	require.Equal(t, symbols.Float, table.Lookup("f").Base)
}

func TestOperatorPrecedenceLayers(t *testing.T) {
	// a < b & c ? d parses as (a < b) & (c ? d).
	prog, _ := parse(t, "output a < b & c ? d;")
	require.Equal(t, vm.Program{
		vm.Ident("a"),
		vm.Ident("b"),
		vm.Operation(vm.OpLT),
		vm.Ident("c"),
		vm.Ident("d"),
		vm.Operation(vm.OpEquals),
		vm.Operation(vm.OpAnd),
		vm.Operation(vm.OpOutput),
	}, prog)
}

func TestUnaryMinus(t *testing.T) {
	prog, _ := parse(t, "output ~x;")
	require.Equal(t, vm.Program{
		vm.Ident("x"),
		vm.Operation(vm.OpUnaryMinus),
		vm.Operation(vm.OpOutput),
	}, prog)
}

func TestParenthesisedLogic(t *testing.T) {
	prog, _ := parse(t, "output (a | b) & c;")
	require.Equal(t, vm.Program{
		vm.Ident("a"),
		vm.Ident("b"),
		vm.Operation(vm.OpOr),
		vm.Ident("c"),
		vm.Operation(vm.OpAnd),
		vm.Operation(vm.OpOutput),
	}, prog)
}

func TestDynamicArrayDeclaration(t *testing.T) {
	prog, table := parse(t, "int [3] a;")
	require.Equal(t, vm.Program{
		vm.Literal(value.Int(3)),
		vm.Ident("a"),
		vm.Operation(vm.OpDeclArr),
	}, prog)
	require.True(t, table.Lookup("a").IsArray)
}

func TestArrayInitialiserList(t *testing.T) {
	prog, table := parse(t, "int [] v = {10, 20, 30};")
	require.Equal(t, vm.Program{
		vm.Ident("v"),
		vm.Literal(value.Int(10)),
		vm.Literal(value.Int(20)),
		vm.Literal(value.Int(30)),
		vm.Operation(vm.OpArrayInit),
		vm.Address(3),
	}, prog)
	require.True(t, table.Lookup("v").IsArray)
}

func TestEmptyInitialiserList(t *testing.T) {
	prog, _ := parse(t, "int [] v = {};")
	require.Equal(t, vm.Program{
		vm.Ident("v"),
		vm.Operation(vm.OpArrayInit),
		vm.Address(0),
	}, prog)
}

func TestArrayAccessAndAssign(t *testing.T) {
	prog, _ := parse(t, "a[0] = a[1] + 1;")
	require.Equal(t, vm.Program{
		vm.Ident("a"),
		vm.Literal(value.Int(0)),
		vm.Ident("a"),
		vm.Literal(value.Int(1)),
		vm.Operation(vm.OpArrayIndex),
		vm.Literal(value.Int(1)),
		vm.Operation(vm.OpPlus),
		vm.Operation(vm.OpArrayAssign),
	}, prog)
}

func TestInputStatements(t *testing.T) {
	prog, _ := parse(t, "input a; input b[2];")
	require.Equal(t, vm.Program{
		vm.Ident("a"),
		vm.Operation(vm.OpInput),
		vm.Ident("b"),
		vm.Literal(value.Int(2)),
		vm.Operation(vm.OpInputArray),
	}, prog)
}

func TestWhileBackPatching(t *testing.T) {
	prog, _ := parse(t, "int n = 0; int i = 1; while (i < 4) { n = n + i; i = i + 1; } output n;")

	// Condition starts at 6; $JF operand at 10 must point past the $J pair.
	require.Equal(t, vm.Operation(vm.OpJumpFalse), prog[9])
	require.Equal(t, vm.Address(23), prog[10])
	require.Equal(t, vm.Operation(vm.OpJump), prog[21])
	require.Equal(t, vm.Address(6), prog[22])
	require.Equal(t, vm.Ident("n"), prog[23])
	require.Equal(t, vm.Operation(vm.OpOutput), prog[24])
	require.Len(t, prog, 25)
}

func TestIfElseBackPatching(t *testing.T) {
	prog, _ := parse(t, "int x = 5; if (x ? 5) { output 1; } else { output 0; }")
	require.Equal(t, vm.Program{
		vm.Ident("x"),
		vm.Literal(value.Int(5)),
		vm.Operation(vm.OpAssign),
		vm.Ident("x"),
		vm.Literal(value.Int(5)),
		vm.Operation(vm.OpEquals),
		vm.Operation(vm.OpJumpFalse),
		vm.Address(12),
		vm.Literal(value.Int(1)),
		vm.Operation(vm.OpOutput),
		vm.Operation(vm.OpJump),
		vm.Address(14),
		vm.Literal(value.Int(0)),
		vm.Operation(vm.OpOutput),
	}, prog)
}

func TestIfWithoutElsePatchesToNext(t *testing.T) {
	prog, _ := parse(t, "if (x) { output 1; } output 2;")
	require.Equal(t, vm.Operation(vm.OpJumpFalse), prog[1])
	require.Equal(t, vm.Address(5), prog[2])
	require.Equal(t, vm.Literal(value.Int(2)), prog[5])
}

func TestJumpOperandsAreAlwaysResolved(t *testing.T) {
	prog, _ := parse(t, "while (a) { if (b) { output 1; } else { output 2; } } output 3;")
	for i, in := range prog {
		if in.Kind == vm.InstrOp && (in.Op == vm.OpJump || in.Op == vm.OpJumpFalse) {
			require.Less(t, i+1, len(prog))
			operand := prog[i+1]
			require.Equal(t, vm.InstrAddr, operand.Kind)
			require.GreaterOrEqual(t, operand.Addr, 0)
			require.LessOrEqual(t, operand.Addr, len(prog))
		}
	}
}

func TestParseIsDeterministic(t *testing.T) {
	src := "int n = 0; while (n < 3) { n = n + 1; } output n;"
	tokens, err := lexer.NewScanner(src).Analyze()
	require.NoError(t, err)
	prog1, _, err := parser.Parse(tokens)
	require.NoError(t, err)
	prog2, _, err := parser.Parse(tokens)
	require.NoError(t, err)
	require.Equal(t, prog1, prog2)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing semicolon", "int x = 1"},
		{"missing closing brace", "if (x) { output 1;"},
		{"missing condition paren", "while x < 3 { }"},
		{"stray token", "int ; x;"},
		{"unbalanced paren", "output (1 + 2;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.src)
			var synErr *parser.SyntaxError
			require.True(t, errors.As(err, &synErr), "got %v", err)
		})
	}
}

func TestRedeclarationIsSemanticError(t *testing.T) {
	err := parseErr(t, "int x; float x;")
	var semErr *parser.SemanticError
	require.True(t, errors.As(err, &semErr), "got %v", err)
	require.Equal(t, 1, semErr.Line)
}
