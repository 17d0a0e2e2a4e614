package vm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/agenthands/kbc/pkg/compiler/symbols"
	"github.com/agenthands/kbc/pkg/core/value"
)

var (
	ErrStackOverflow   = errors.New("vm: stack overflow")
	ErrStackUnderflow  = errors.New("vm: stack underflow")
	ErrDivisionByZero  = errors.New("vm: division by zero")
	ErrBadJumpTarget   = errors.New("vm: malformed jump target")
	ErrUndefinedArray  = errors.New("vm: undefined array")
	ErrIndexOutOfRange = errors.New("vm: array index out of bounds")
	ErrBadArraySize    = errors.New("vm: array size must be positive")
	ErrTypeMismatch    = errors.New("vm: operand type mismatch")
)

const StackDepth = 128

// Machine executes an RPN instruction stream against an operand stack and a
// runtime symbol table. Side effects happen in strict instruction-pointer
// order; every Run starts from a clean environment.
type Machine struct {
	Stack [StackDepth]value.Value
	SP    int
	IP    int

	Decls   *symbols.Table // declaration-time table, cloned on each Run
	Symbols *symbols.Table // runtime table of the current run
	Output  []value.Value

	In     io.Reader // interactive input source, used when the supply runs dry
	Prompt io.Writer // optional prompt sink for interactive input

	inputs   []int64
	inputPos int
	reader   *bufio.Reader
}

// New creates a machine for a program declared by decls.
func New(decls *symbols.Table) *Machine {
	return &Machine{Decls: decls}
}

// SetInput pre-populates the input supply so execution is deterministic.
func (m *Machine) SetInput(values []int64) {
	m.inputs = values
}

func (m *Machine) push(v value.Value) {
	if m.SP >= StackDepth {
		panic(ErrStackOverflow)
	}
	m.Stack[m.SP] = v
	m.SP++
}

func (m *Machine) pop() value.Value {
	if m.SP <= 0 {
		panic(ErrStackUnderflow)
	}
	m.SP--
	return m.Stack[m.SP]
}

// popOperand pops and resolves names to values through the symbol table.
// An unknown name is auto-initialised as a scalar int zero.
func (m *Machine) popOperand() (value.Value, error) {
	v := m.pop()
	if !v.IsName() {
		return v, nil
	}
	sym := m.Symbols.Lookup(v.Name)
	if sym == nil {
		if err := m.Symbols.Declare(v.Name, symbols.Int, false, 0, 0); err != nil {
			return value.Value{}, err
		}
		return value.Int(0), nil
	}
	if sym.IsArray {
		return value.Value{}, fmt.Errorf("%w: array %q used as a scalar", ErrTypeMismatch, v.Name)
	}
	return sym.Value, nil
}

// popName pops an element that must still be an unresolved name.
func (m *Machine) popName(op Opcode) (string, error) {
	v := m.pop()
	if !v.IsName() {
		return "", fmt.Errorf("%w: %s expected a name, got %s", ErrTypeMismatch, op, v.Format())
	}
	return v.Name, nil
}

func (m *Machine) lookupArray(op Opcode, name string) (*symbols.Symbol, error) {
	sym := m.Symbols.Lookup(name)
	if sym == nil || !sym.IsArray {
		return nil, fmt.Errorf("%w: %q in %s", ErrUndefinedArray, name, op)
	}
	return sym, nil
}

// Run executes prog and returns the collected output and the final symbol
// table. State from previous runs is discarded on entry.
func (m *Machine) Run(prog Program) (out []value.Value, table *symbols.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && (errors.Is(e, ErrStackOverflow) || errors.Is(e, ErrStackUnderflow)) {
				err = e
				return
			}
			if _, ok := r.(runtime.Error); ok {
				err = ErrStackUnderflow
				return
			}
			panic(r)
		}
	}()

	m.SP = 0
	m.IP = 0
	m.Output = nil
	m.inputPos = 0
	m.reader = nil
	if m.Decls != nil {
		m.Symbols = m.Decls.Clone()
	} else {
		m.Symbols = symbols.NewTable()
	}

	for m.IP < len(prog) {
		in := prog[m.IP]

		switch in.Kind {
		case InstrValue:
			m.push(in.Val)
			m.IP++

		case InstrName:
			m.push(value.Name(in.Name))
			m.IP++

		case InstrAddr:
			return nil, nil, fmt.Errorf("%w: stray operand at index %d", ErrBadJumpTarget, m.IP)

		case InstrOp:
			if err := m.step(prog, in.Op); err != nil {
				return nil, nil, err
			}

		default:
			return nil, nil, fmt.Errorf("vm: unknown instruction at index %d", m.IP)
		}
	}

	return m.Output, m.Symbols, nil
}

func (m *Machine) step(prog Program, op Opcode) error {
	switch op {
	case OpPlus, OpMinus, OpMultiply, OpLT, OpGT, OpEquals, OpNEQ, OpAnd, OpOr:
		b, err := m.popOperand()
		if err != nil {
			return err
		}
		a, err := m.popOperand()
		if err != nil {
			return err
		}
		m.push(binary(op, a, b))
		m.IP++

	case OpDivide:
		b, err := m.popOperand()
		if err != nil {
			return err
		}
		a, err := m.popOperand()
		if err != nil {
			return err
		}
		if b.Float() == 0 {
			return ErrDivisionByZero
		}
		if a.Type == value.TypeFloat || b.Type == value.TypeFloat {
			m.push(value.Float(a.Float() / b.Float()))
		} else {
			m.push(value.Int(a.Int() / b.Int()))
		}
		m.IP++

	case OpUnaryMinus:
		v, err := m.popOperand()
		if err != nil {
			return err
		}
		if v.Type == value.TypeFloat {
			m.push(value.Float(-v.Float()))
		} else {
			m.push(value.Int(-v.Int()))
		}
		m.IP++

	case OpDeclArr:
		name, err := m.popName(op)
		if err != nil {
			return err
		}
		size, err := m.popOperand()
		if err != nil {
			return err
		}
		n := size.Int()
		if n <= 0 {
			return fmt.Errorf("%w: %q declared with size %d", ErrBadArraySize, name, n)
		}
		sym, err := m.lookupArray(op, name)
		if err != nil {
			return err
		}
		sym.Elems = make([]value.Value, n)
		for i := range sym.Elems {
			sym.Elems[i] = sym.Base.Zero()
		}
		m.IP++

	case OpAssign:
		v, err := m.popOperand()
		if err != nil {
			return err
		}
		name, err := m.popName(op)
		if err != nil {
			return err
		}
		sym := m.Symbols.Lookup(name)
		if sym == nil {
			base := symbols.Int
			if v.Type == value.TypeFloat {
				base = symbols.Float
			}
			if err := m.Symbols.Declare(name, base, false, 0, 0); err != nil {
				return err
			}
			sym = m.Symbols.Lookup(name)
		}
		if sym.IsArray {
			return fmt.Errorf("%w: cannot assign a scalar to array %q", ErrTypeMismatch, name)
		}
		sym.Value = v
		m.IP++

	case OpArrayInit:
		count, err := m.operand(prog, op)
		if err != nil {
			return err
		}
		if count < 0 {
			return fmt.Errorf("%w: ARRAY_INIT with count %d", ErrBadJumpTarget, count)
		}
		elems := make([]value.Value, count)
		for i := count - 1; i >= 0; i-- {
			v, err := m.popOperand()
			if err != nil {
				return err
			}
			elems[i] = v
		}
		name, err := m.popName(op)
		if err != nil {
			return err
		}
		sym, err := m.lookupArray(op, name)
		if err != nil {
			return err
		}
		sym.Elems = elems
		m.IP += 2

	case OpArrayIndex:
		idx, err := m.popOperand()
		if err != nil {
			return err
		}
		name, err := m.popName(op)
		if err != nil {
			return err
		}
		sym, err := m.lookupArray(op, name)
		if err != nil {
			return err
		}
		i := idx.Int()
		if i < 0 || i >= int64(len(sym.Elems)) {
			return fmt.Errorf("%w: %s[%d], size %d", ErrIndexOutOfRange, name, i, len(sym.Elems))
		}
		m.push(sym.Elems[i])
		m.IP++

	case OpArrayAssign:
		v, err := m.popOperand()
		if err != nil {
			return err
		}
		idx, err := m.popOperand()
		if err != nil {
			return err
		}
		name, err := m.popName(op)
		if err != nil {
			return err
		}
		sym, err := m.lookupArray(op, name)
		if err != nil {
			return err
		}
		i := idx.Int()
		if i < 0 || i >= int64(len(sym.Elems)) {
			return fmt.Errorf("%w: %s[%d], size %d", ErrIndexOutOfRange, name, i, len(sym.Elems))
		}
		sym.Elems[i] = v
		m.IP++

	case OpOutput:
		v, err := m.popOperand()
		if err != nil {
			return err
		}
		m.Output = append(m.Output, v)
		m.IP++

	case OpInput:
		name, err := m.popName(op)
		if err != nil {
			return err
		}
		v := m.readInput(fmt.Sprintf("%s = ", name))
		sym := m.Symbols.Lookup(name)
		if sym == nil {
			if err := m.Symbols.Declare(name, symbols.Int, false, 0, 0); err != nil {
				return err
			}
			sym = m.Symbols.Lookup(name)
		}
		if sym.IsArray {
			return fmt.Errorf("%w: cannot input a scalar into array %q", ErrTypeMismatch, name)
		}
		sym.Value = value.Int(v)
		m.IP++

	case OpInputArray:
		idx, err := m.popOperand()
		if err != nil {
			return err
		}
		name, err := m.popName(op)
		if err != nil {
			return err
		}
		sym, err := m.lookupArray(op, name)
		if err != nil {
			return err
		}
		i := idx.Int()
		if i < 0 || i >= int64(len(sym.Elems)) {
			return fmt.Errorf("%w: %s[%d], size %d", ErrIndexOutOfRange, name, i, len(sym.Elems))
		}
		v := m.readInput(fmt.Sprintf("%s[%d] = ", name, i))
		sym.Elems[i] = value.Int(v)
		m.IP++

	case OpJump:
		target, err := m.operand(prog, op)
		if err != nil {
			return err
		}
		if target < 0 || target > len(prog) {
			return fmt.Errorf("%w: $J to %d", ErrBadJumpTarget, target)
		}
		m.IP = target

	case OpJumpFalse:
		target, err := m.operand(prog, op)
		if err != nil {
			return err
		}
		if target < 0 || target > len(prog) {
			return fmt.Errorf("%w: $JF to %d", ErrBadJumpTarget, target)
		}
		cond, err := m.popOperand()
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			m.IP = target
		} else {
			m.IP += 2
		}

	default:
		return fmt.Errorf("vm: unknown opcode %s at index %d", op, m.IP)
	}
	return nil
}

// operand reads the integer element following the opcode at IP.
func (m *Machine) operand(prog Program, op Opcode) (int, error) {
	at := m.IP + 1
	if at >= len(prog) || prog[at].Kind != InstrAddr {
		return 0, fmt.Errorf("%w: %s at index %d has no operand", ErrBadJumpTarget, op, m.IP)
	}
	return prog[at].Addr, nil
}

func binary(op Opcode, a, b value.Value) value.Value {
	float := a.Type == value.TypeFloat || b.Type == value.TypeFloat
	switch op {
	case OpPlus:
		if float {
			return value.Float(a.Float() + b.Float())
		}
		return value.Int(a.Int() + b.Int())
	case OpMinus:
		if float {
			return value.Float(a.Float() - b.Float())
		}
		return value.Int(a.Int() - b.Int())
	case OpMultiply:
		if float {
			return value.Float(a.Float() * b.Float())
		}
		return value.Int(a.Int() * b.Int())
	case OpLT:
		return value.Bool(a.Float() < b.Float())
	case OpGT:
		return value.Bool(a.Float() > b.Float())
	case OpEquals:
		return value.Bool(a.Float() == b.Float())
	case OpNEQ:
		return value.Bool(a.Float() != b.Float())
	case OpAnd:
		return value.Bool(a.Truthy() && b.Truthy())
	case OpOr:
		return value.Bool(a.Truthy() || b.Truthy())
	}
	return value.Value{}
}

// readInput takes the next value from the supply, falling back to a line read
// from In. Unreadable input yields zero.
func (m *Machine) readInput(prompt string) int64 {
	if m.inputPos < len(m.inputs) {
		v := m.inputs[m.inputPos]
		m.inputPos++
		return v
	}
	if m.In == nil {
		return 0
	}
	if m.Prompt != nil {
		fmt.Fprint(m.Prompt, prompt)
	}
	if m.reader == nil {
		m.reader = bufio.NewReader(m.In)
	}
	line, err := m.reader.ReadString('\n')
	if err != nil && line == "" {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
