// Package parser is a table-driven LL(1) predictive analyser. Grammar
// symbols and semantic-action markers share a single push-down stack, so
// RPN emission and symbol-table bookkeeping fire at deterministic points
// of the parse. One pass, no AST.
package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agenthands/kbc/pkg/compiler/emitter"
	"github.com/agenthands/kbc/pkg/compiler/lexer"
	"github.com/agenthands/kbc/pkg/compiler/symbols"
	"github.com/agenthands/kbc/pkg/core/value"
	"github.com/agenthands/kbc/pkg/vm"
)

// SyntaxError reports the first point where the token stream stopped
// matching the grammar.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// SemanticError reports a declaration-time fault such as redeclaration.
type SemanticError struct {
	Line    int
	Column  int
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("semantic error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

type whileFrame struct {
	start  int // index of the first condition instruction
	jfSlot int // reserved $JF operand slot
}

type ifFrame struct {
	jfSlot int
	jSlot  int // reserved $J operand slot, -1 until an else branch appears
}

type Parser struct {
	tokens []lexer.Token
	pos    int
	stack  []symbol

	emit   *emitter.Emitter
	symtab *symbols.Table

	typeStack   []symbols.BaseType
	savedIdent  *lexer.Token // declaration/assignment/input target
	savedFactor *lexer.Token // pending expression factor
	whileStack  []whileFrame
	ifStack     []ifFrame
	initCounts  []int
}

func New(tokens []lexer.Token) *Parser {
	return &Parser{
		tokens: tokens,
		stack:  []symbol{t(lexer.KindEOF), n(ntProgram)},
		emit:   emitter.New(),
		symtab: symbols.NewTable(),
	}
}

// Parse consumes the token stream and returns the emitted RPN program and
// the declaration-time symbol table. It stops at the first error.
func Parse(tokens []lexer.Token) (vm.Program, *symbols.Table, error) {
	return New(tokens).Run()
}

func (p *Parser) current() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Kind: lexer.KindEOF, Line: -1, Column: -1}
}

func (p *Parser) advance() {
	p.pos++
}

func (p *Parser) errorf(format string, args ...any) *SyntaxError {
	tok := p.current()
	return &SyntaxError{Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...)}
}

// Run drives the predictive loop until the stack and input agree on EOF.
func (p *Parser) Run() (vm.Program, *symbols.Table, error) {
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		cur := p.current()

		if top.kind == symTerminal && top.term == lexer.KindEOF && cur.Kind == lexer.KindEOF {
			break
		}

		switch top.kind {
		case symTerminal:
			if top.term != cur.Kind {
				return nil, nil, p.errorf("expected %s, got %s", top.term, cur.Kind)
			}
			p.stack = p.stack[:len(p.stack)-1]
			if cur.Kind == lexer.KindIntConst || cur.Kind == lexer.KindFloatConst {
				if err := p.emitConstant(cur); err != nil {
					return nil, nil, err
				}
			}
			p.advance()

		case symNonTerminal:
			r, ok := parseTable[top.nt][cur.Kind]
			if !ok {
				return nil, nil, p.errorf("in %s: expected one of %s, got %s",
					top.nt, expectedSet(top.nt), cur.Kind)
			}
			p.stack = p.stack[:len(p.stack)-1]
			for i := len(r) - 1; i >= 0; i-- {
				p.stack = append(p.stack, r[i])
			}

		case symAction:
			p.stack = p.stack[:len(p.stack)-1]
			if err := p.execute(top.act); err != nil {
				return nil, nil, err
			}
		}
	}

	return p.emit.Program(), p.symtab, nil
}

// emitConstant parses the lexeme of a constant token and appends it to the
// RPN stream as a value.
func (p *Parser) emitConstant(tok lexer.Token) error {
	if tok.Kind == lexer.KindIntConst {
		i, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return p.errorf("malformed integer constant %q", tok.Value)
		}
		p.emit.AddValue(value.Int(i))
		return nil
	}
	f, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return p.errorf("malformed float constant %q", tok.Value)
	}
	p.emit.AddValue(value.Float(f))
	return nil
}

// expectedSet renders the lookahead kinds a non-terminal accepts, for
// diagnostics.
func expectedSet(nt nonTerminal) string {
	kinds := make([]lexer.Kind, 0, len(parseTable[nt]))
	for k := range parseTable[nt] {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

func (p *Parser) execute(act action) error {
	switch act {
	case actPushIntType:
		p.typeStack = append(p.typeStack, symbols.Int)
	case actPushFloatType:
		p.typeStack = append(p.typeStack, symbols.Float)

	case actSaveIdent:
		tok := p.current()
		if tok.Kind != lexer.KindIdentifier {
			return p.errorf("expected identifier, got %s", tok.Kind)
		}
		p.savedIdent = &tok

	case actSaveFactor:
		tok := p.current()
		if tok.Kind != lexer.KindIdentifier {
			return p.errorf("expected identifier, got %s", tok.Kind)
		}
		p.savedFactor = &tok

	case actAddVarDecl:
		return p.declareSaved(false, false)
	case actAddDynArrayDecl:
		if err := p.declareSaved(true, true); err != nil {
			return err
		}
		p.emit.AddOp(vm.OpDeclArr)
	case actAddArrayDeclForInit:
		return p.declareSaved(true, true)

	case actArrayInitStart:
		p.initCounts = append(p.initCounts, 0)
	case actCountInit:
		if len(p.initCounts) == 0 {
			return fmt.Errorf("parser: initialiser count outside a list")
		}
		p.initCounts[len(p.initCounts)-1]++
	case actArrayInitEnd:
		if len(p.initCounts) == 0 {
			return fmt.Errorf("parser: initialiser list was never opened")
		}
		count := p.initCounts[len(p.initCounts)-1]
		p.initCounts = p.initCounts[:len(p.initCounts)-1]
		p.emit.AddArrayInit(count)

	case actEmitFactorIfNotArray:
		// Only fires when the identifier was not consumed as an array access.
		if p.savedFactor != nil {
			p.emit.AddName(p.savedFactor.Value)
			p.savedFactor = nil
		}
	case actEmitArrayName:
		if p.savedFactor == nil {
			return fmt.Errorf("parser: no saved factor for array access")
		}
		p.emit.AddName(p.savedFactor.Value)
		p.savedFactor = nil
	case actGenArrayIndex:
		p.emit.AddOp(vm.OpArrayIndex)

	case actEmitAssignTarget, actEmitInputTarget:
		if p.savedIdent == nil {
			return fmt.Errorf("parser: no saved identifier for target")
		}
		p.emit.AddName(p.savedIdent.Value)

	case actGenAssign:
		return p.emit.AddOperator("=")
	case actGenArrayAssign:
		p.emit.AddOp(vm.OpArrayAssign)
	case actGenOutput:
		p.emit.AddOp(vm.OpOutput)
	case actGenInput:
		p.emit.AddOp(vm.OpInput)
	case actGenInputArray:
		p.emit.AddOp(vm.OpInputArray)

	case actGenPlus:
		return p.emit.AddOperator("+")
	case actGenMinus:
		return p.emit.AddOperator("-")
	case actGenMultiply:
		return p.emit.AddOperator("*")
	case actGenDivide:
		return p.emit.AddOperator("/")
	case actGenUminus:
		return p.emit.AddOperator("~")
	case actGenLT:
		return p.emit.AddOperator("<")
	case actGenGT:
		return p.emit.AddOperator(">")
	case actGenEQ:
		return p.emit.AddOperator("?")
	case actGenNEQ:
		return p.emit.AddOperator("!")
	case actGenAnd:
		return p.emit.AddOperator("&")
	case actGenOr:
		return p.emit.AddOperator("|")

	case actWhileStart:
		p.whileStack = append(p.whileStack, whileFrame{start: p.emit.Len()})
	case actAfterWhileCond:
		if len(p.whileStack) == 0 {
			return fmt.Errorf("parser: while stack is empty after condition")
		}
		p.whileStack[len(p.whileStack)-1].jfSlot = p.emit.ReserveJump(vm.OpJumpFalse)
	case actEndWhile:
		if len(p.whileStack) == 0 {
			return fmt.Errorf("parser: while stack is empty at loop end")
		}
		frame := p.whileStack[len(p.whileStack)-1]
		p.whileStack = p.whileStack[:len(p.whileStack)-1]
		p.emit.EmitJump(vm.OpJump, frame.start)
		return p.emit.PatchJump(frame.jfSlot, p.emit.Len())

	case actAfterIfCond:
		p.ifStack = append(p.ifStack, ifFrame{jfSlot: p.emit.ReserveJump(vm.OpJumpFalse), jSlot: -1})
	case actStartElse:
		if len(p.ifStack) == 0 {
			return fmt.Errorf("parser: if stack is empty at else")
		}
		frame := &p.ifStack[len(p.ifStack)-1]
		frame.jSlot = p.emit.ReserveJump(vm.OpJump)
		return p.emit.PatchJump(frame.jfSlot, p.emit.Len())
	case actEndIf:
		if len(p.ifStack) == 0 {
			return fmt.Errorf("parser: if stack is empty at end of if")
		}
		frame := p.ifStack[len(p.ifStack)-1]
		p.ifStack = p.ifStack[:len(p.ifStack)-1]
		if frame.jSlot >= 0 {
			return p.emit.PatchJump(frame.jSlot, p.emit.Len())
		}
		return p.emit.PatchJump(frame.jfSlot, p.emit.Len())
	}
	return nil
}

// declareSaved commits the saved identifier with the type on top of the type
// stack. Array declarations also emit the array name for the following
// DECL_ARR or ARRAY_INIT.
func (p *Parser) declareSaved(isArray, emitName bool) error {
	if p.savedIdent == nil {
		return fmt.Errorf("parser: no saved identifier for declaration")
	}
	if len(p.typeStack) == 0 {
		return fmt.Errorf("parser: type stack is empty for %q", p.savedIdent.Value)
	}
	base := p.typeStack[len(p.typeStack)-1]
	p.typeStack = p.typeStack[:len(p.typeStack)-1]

	tok := *p.savedIdent
	if err := p.symtab.Declare(tok.Value, base, isArray, tok.Line, tok.Column); err != nil {
		return &SemanticError{Line: tok.Line, Column: tok.Column, Message: err.Error()}
	}
	if emitName {
		p.emit.AddName(tok.Value)
		p.savedIdent = nil
	}
	return nil
}
