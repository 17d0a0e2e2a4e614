package vm

import (
	"fmt"
	"strings"

	"github.com/agenthands/kbc/pkg/core/value"
)

// Opcode identifies one operation of the RPN instruction set.
type Opcode uint8

const (
	OpPlus Opcode = iota
	OpMinus
	OpMultiply
	OpDivide
	OpUnaryMinus
	OpLT
	OpGT
	OpEquals
	OpNEQ
	OpAnd
	OpOr
	OpAssign
	OpArrayAssign
	OpArrayIndex
	OpDeclArr
	OpArrayInit // followed by an element-count operand
	OpInput
	OpOutput
	OpInputArray
	OpJump      // followed by an absolute-address operand
	OpJumpFalse // followed by an absolute-address operand
)

var opcodeNames = map[Opcode]string{
	OpPlus:        "PLUS",
	OpMinus:       "MINUS",
	OpMultiply:    "MULTIPLY",
	OpDivide:      "DIVIDE",
	OpUnaryMinus:  "UNARY_MINUS",
	OpLT:          "LT",
	OpGT:          "GT",
	OpEquals:      "EQUALS",
	OpNEQ:         "NEQ",
	OpAnd:         "AND",
	OpOr:          "OR",
	OpAssign:      "ASSIGN",
	OpArrayAssign: "ARRAY_ASSIGN",
	OpArrayIndex:  "ARRAY_INDEX",
	OpDeclArr:     "DECL_ARR",
	OpArrayInit:   "ARRAY_INIT",
	OpInput:       "$r",
	OpOutput:      "$w",
	OpInputArray:  "r_array",
	OpJump:        "$J",
	OpJumpFalse:   "$JF",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP(%d)", uint8(op))
}

// InstrKind tags the three element shapes of the instruction stream, plus the
// integer operand slot that follows jumps and ARRAY_INIT.
type InstrKind uint8

const (
	InstrValue InstrKind = iota // numeric literal, pushed as a value
	InstrName                   // identifier, pushed as a name
	InstrOp                     // opcode
	InstrAddr                   // operand of the preceding $J/$JF/ARRAY_INIT
)

// Instr is one element of the RPN stream.
type Instr struct {
	Kind InstrKind
	Val  value.Value
	Name string
	Op   Opcode
	Addr int
}

// Literal builds a value element.
func Literal(v value.Value) Instr {
	return Instr{Kind: InstrValue, Val: v}
}

// Ident builds a name element.
func Ident(name string) Instr {
	return Instr{Kind: InstrName, Name: name}
}

// Operation builds an opcode element.
func Operation(op Opcode) Instr {
	return Instr{Kind: InstrOp, Op: op}
}

// Address builds an integer-operand element.
func Address(addr int) Instr {
	return Instr{Kind: InstrAddr, Addr: addr}
}

func (in Instr) String() string {
	switch in.Kind {
	case InstrValue:
		return in.Val.Format()
	case InstrName:
		return in.Name
	case InstrOp:
		return in.Op.String()
	default:
		return fmt.Sprintf("%d", in.Addr)
	}
}

// Program is the linear instruction stream produced by the emitter.
type Program []Instr

// Dump renders the stream one indexed element per line.
func (p Program) Dump() string {
	var sb strings.Builder
	for i, in := range p {
		fmt.Fprintf(&sb, "%d: %s\n", i, in.String())
	}
	return sb.String()
}
