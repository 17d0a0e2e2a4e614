package emitter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenthands/kbc/pkg/compiler/emitter"
	"github.com/agenthands/kbc/pkg/core/value"
	"github.com/agenthands/kbc/pkg/vm"
)

func TestOperatorCanonicalisation(t *testing.T) {
	tests := []struct {
		text string
		op   vm.Opcode
	}{
		{"+", vm.OpPlus},
		{"-", vm.OpMinus},
		{"*", vm.OpMultiply},
		{"/", vm.OpDivide},
		{"~", vm.OpUnaryMinus},
		{"<", vm.OpLT},
		{">", vm.OpGT},
		{"?", vm.OpEquals},
		{"!", vm.OpNEQ},
		{"&", vm.OpAnd},
		{"|", vm.OpOr},
		{"=", vm.OpAssign},
	}
	for _, tt := range tests {
		e := emitter.New()
		require.NoError(t, e.AddOperator(tt.text))
		require.Equal(t, vm.Program{vm.Operation(tt.op)}, e.Program())
	}

	e := emitter.New()
	require.Error(t, e.AddOperator("%"))
}

func TestReserveAndPatch(t *testing.T) {
	e := emitter.New()
	e.AddValue(value.Int(1))
	slot := e.ReserveJump(vm.OpJumpFalse)
	require.Equal(t, 2, slot)
	e.AddName("x")
	require.NoError(t, e.PatchJump(slot, e.Len()))

	prog := e.Program()
	require.Equal(t, vm.Program{
		vm.Literal(value.Int(1)),
		vm.Operation(vm.OpJumpFalse),
		vm.Address(4),
		vm.Ident("x"),
	}, prog)
}

func TestPatchRejectsNonSlots(t *testing.T) {
	e := emitter.New()
	e.AddValue(value.Int(1))
	e.AddOp(vm.OpPlus)

	require.Error(t, e.PatchJump(0, 2)) // literal, not a slot
	require.Error(t, e.PatchJump(1, 2)) // opcode, not a slot
	require.Error(t, e.PatchJump(9, 2)) // out of range

	// An ARRAY_INIT operand is not a jump slot either.
	e.AddArrayInit(2)
	require.Error(t, e.PatchJump(3, 0))
}

func TestEmitJumpKnownTarget(t *testing.T) {
	e := emitter.New()
	e.EmitJump(vm.OpJump, 0)
	require.Equal(t, vm.Program{vm.Operation(vm.OpJump), vm.Address(0)}, e.Program())
}

func TestArrayInitCarriesCount(t *testing.T) {
	e := emitter.New()
	e.AddName("v")
	e.AddValue(value.Int(10))
	e.AddValue(value.Int(20))
	e.AddArrayInit(2)

	prog := e.Program()
	require.Equal(t, vm.Address(2), prog[4])
	require.Equal(t, vm.Operation(vm.OpArrayInit), prog[3])
}
