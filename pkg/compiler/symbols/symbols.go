// Package symbols tracks declared names: their base type, array-ness,
// declaration site and, at run time, their current value(s).
package symbols

import (
	"fmt"
	"strings"

	"github.com/agenthands/kbc/pkg/core/value"
)

// BaseType is the scalar element type of a symbol.
type BaseType uint8

const (
	Int BaseType = iota
	Float
)

func (b BaseType) String() string {
	if b == Float {
		return "float"
	}
	return "int"
}

// Zero returns the zero value of the base type.
func (b BaseType) Zero() value.Value {
	if b == Float {
		return value.Float(0)
	}
	return value.Int(0)
}

// Symbol is one declared name. Scalars use Value; arrays use Elems.
type Symbol struct {
	Name    string
	Base    BaseType
	IsArray bool
	Line    int
	Column  int
	Value   value.Value
	Elems   []value.Value
}

// Table maps names to symbols. A name resolves to exactly one entry;
// insertion order is preserved so dumps are deterministic.
type Table struct {
	entries map[string]*Symbol
	order   []string
}

func NewTable() *Table {
	return &Table{entries: make(map[string]*Symbol)}
}

// Declare registers a new symbol. Redeclaring an existing name is an error.
func (t *Table) Declare(name string, base BaseType, isArray bool, line, column int) error {
	if _, ok := t.entries[name]; ok {
		return fmt.Errorf("redeclaration of %q at line %d, column %d", name, line, column)
	}
	sym := &Symbol{Name: name, Base: base, IsArray: isArray, Line: line, Column: column}
	if !isArray {
		sym.Value = base.Zero()
	}
	t.entries[name] = sym
	t.order = append(t.order, name)
	return nil
}

// Lookup returns the symbol for name, or nil.
func (t *Table) Lookup(name string) *Symbol {
	return t.entries[name]
}

// Len returns the number of declared symbols.
func (t *Table) Len() int {
	return len(t.order)
}

// Names returns the declared names in declaration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Clone returns a deep copy. The interpreter clones the declaration table on
// entry so every run starts from a clean environment.
func (t *Table) Clone() *Table {
	c := NewTable()
	for _, name := range t.order {
		src := t.entries[name]
		sym := &Symbol{
			Name:    src.Name,
			Base:    src.Base,
			IsArray: src.IsArray,
			Line:    src.Line,
			Column:  src.Column,
			Value:   src.Value,
		}
		if src.Elems != nil {
			sym.Elems = make([]value.Value, len(src.Elems))
			copy(sym.Elems, src.Elems)
		}
		c.entries[name] = sym
		c.order = append(c.order, name)
	}
	return c
}

// Dump renders the table one symbol per line, in declaration order.
func (t *Table) Dump() string {
	var sb strings.Builder
	for _, name := range t.order {
		sym := t.entries[name]
		if sym.IsArray {
			parts := make([]string, len(sym.Elems))
			for i, el := range sym.Elems {
				parts[i] = el.Format()
			}
			fmt.Fprintf(&sb, "%s %s[%d] = [%s]\n", sym.Base, name, len(sym.Elems), strings.Join(parts, ", "))
		} else {
			fmt.Fprintf(&sb, "%s %s = %s\n", sym.Base, name, sym.Value.Format())
		}
	}
	return sb.String()
}
