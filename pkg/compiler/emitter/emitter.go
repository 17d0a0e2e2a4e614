// Package emitter builds the RPN instruction stream. It is an append-only
// buffer with a small typed API for jump back-patching: reserve a slot, hand
// back its index, fill it in once the target address is known.
package emitter

import (
	"fmt"

	"github.com/agenthands/kbc/pkg/core/value"
	"github.com/agenthands/kbc/pkg/vm"
)

// operatorOps canonicalises source operator spellings to opcodes.
var operatorOps = map[string]vm.Opcode{
	"+": vm.OpPlus,
	"-": vm.OpMinus,
	"*": vm.OpMultiply,
	"/": vm.OpDivide,
	"~": vm.OpUnaryMinus,
	"<": vm.OpLT,
	">": vm.OpGT,
	"?": vm.OpEquals,
	"!": vm.OpNEQ,
	"&": vm.OpAnd,
	"|": vm.OpOr,
	"=": vm.OpAssign,
}

const unpatched = -1

type Emitter struct {
	prog vm.Program
}

func New() *Emitter {
	return &Emitter{}
}

// Len returns the current length of the stream, which is also the index the
// next element will occupy.
func (e *Emitter) Len() int {
	return len(e.prog)
}

// AddValue appends a numeric literal.
func (e *Emitter) AddValue(v value.Value) {
	e.prog = append(e.prog, vm.Literal(v))
}

// AddName appends an identifier operand.
func (e *Emitter) AddName(name string) {
	e.prog = append(e.prog, vm.Ident(name))
}

// AddOp appends an opcode.
func (e *Emitter) AddOp(op vm.Opcode) {
	e.prog = append(e.prog, vm.Operation(op))
}

// AddOperator appends the canonical opcode for a source operator spelling.
func (e *Emitter) AddOperator(text string) error {
	op, ok := operatorOps[text]
	if !ok {
		return fmt.Errorf("emitter: unknown operator %q", text)
	}
	e.AddOp(op)
	return nil
}

// ReserveJump appends op followed by an unpatched address slot and returns
// the slot's index for a later PatchJump.
func (e *Emitter) ReserveJump(op vm.Opcode) int {
	e.AddOp(op)
	slot := len(e.prog)
	e.prog = append(e.prog, vm.Address(unpatched))
	return slot
}

// EmitJump appends op with an already-known absolute target.
func (e *Emitter) EmitJump(op vm.Opcode, target int) {
	e.AddOp(op)
	e.prog = append(e.prog, vm.Address(target))
}

// PatchJump fills a reserved slot with the target address.
func (e *Emitter) PatchJump(slot, target int) error {
	if slot < 1 || slot >= len(e.prog) || e.prog[slot].Kind != vm.InstrAddr {
		return fmt.Errorf("emitter: index %d is not a jump operand slot", slot)
	}
	prev := e.prog[slot-1]
	if prev.Kind != vm.InstrOp || (prev.Op != vm.OpJump && prev.Op != vm.OpJumpFalse) {
		return fmt.Errorf("emitter: index %d does not follow a jump opcode", slot)
	}
	e.prog[slot].Addr = target
	return nil
}

// AddArrayInit appends ARRAY_INIT with its element count.
func (e *Emitter) AddArrayInit(count int) {
	e.AddOp(vm.OpArrayInit)
	e.prog = append(e.prog, vm.Address(count))
}

// Program returns the emitted stream.
func (e *Emitter) Program() vm.Program {
	return e.prog
}
