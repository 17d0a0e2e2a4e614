package parser

import "github.com/agenthands/kbc/pkg/compiler/lexer"

// nonTerminal names a grammar non-terminal.
type nonTerminal uint8

const (
	ntProgram nonTerminal = iota
	ntStmtList
	ntDecl
	ntDeclArray
	ntDeclTail
	ntAssignTail
	ntBlock
	ntElseClause
	ntInitList
	ntInitListRest
	ntInputStmt
	ntInputTail
	ntLogicExpr
	ntOrTail
	ntAndExpr
	ntAndTail
	ntEqExpr
	ntEqTail
	ntRelExpr
	ntRelTail
	ntExpr
	ntAddTail
	ntTerm
	ntMulTail
	ntFactor
	ntFactorTail
)

var nonTerminalNames = [...]string{
	ntProgram:      "program",
	ntStmtList:     "statement list",
	ntDecl:         "declaration",
	ntDeclArray:    "array declaration",
	ntDeclTail:     "declaration tail",
	ntAssignTail:   "assignment tail",
	ntBlock:        "block",
	ntElseClause:   "else clause",
	ntInitList:     "initialiser list",
	ntInitListRest: "initialiser list tail",
	ntInputStmt:    "input statement",
	ntInputTail:    "input tail",
	ntLogicExpr:    "logical expression",
	ntOrTail:       "logical-or tail",
	ntAndExpr:      "logical-and expression",
	ntAndTail:      "logical-and tail",
	ntEqExpr:       "equality expression",
	ntEqTail:       "equality tail",
	ntRelExpr:      "relational expression",
	ntRelTail:      "relational tail",
	ntExpr:         "expression",
	ntAddTail:      "additive tail",
	ntTerm:         "term",
	ntMulTail:      "multiplicative tail",
	ntFactor:       "factor",
	ntFactorTail:   "factor tail",
}

func (nt nonTerminal) String() string {
	return nonTerminalNames[nt]
}

// action names a semantic-action marker interleaved with grammar symbols on
// the parse stack.
type action uint8

const (
	actPushIntType action = iota
	actPushFloatType
	actSaveIdent
	actSaveFactor
	actAddVarDecl
	actAddDynArrayDecl
	actAddArrayDeclForInit
	actArrayInitStart
	actCountInit
	actArrayInitEnd
	actEmitFactorIfNotArray
	actEmitArrayName
	actGenArrayIndex
	actEmitAssignTarget
	actEmitInputTarget
	actGenAssign
	actGenArrayAssign
	actGenOutput
	actGenInput
	actGenInputArray
	actGenPlus
	actGenMinus
	actGenMultiply
	actGenDivide
	actGenUminus
	actGenLT
	actGenGT
	actGenEQ
	actGenNEQ
	actGenAnd
	actGenOr
	actWhileStart
	actAfterWhileCond
	actEndWhile
	actAfterIfCond
	actStartElse
	actEndIf
)

// symKind tags the three element kinds of the parse stack.
type symKind uint8

const (
	symTerminal symKind = iota
	symNonTerminal
	symAction
)

// symbol is one parse-stack element: a terminal token kind, a non-terminal,
// or a semantic-action marker.
type symbol struct {
	kind symKind
	term lexer.Kind
	nt   nonTerminal
	act  action
}

func t(k lexer.Kind) symbol {
	return symbol{kind: symTerminal, term: k}
}

func n(nt nonTerminal) symbol {
	return symbol{kind: symNonTerminal, nt: nt}
}

func a(act action) symbol {
	return symbol{kind: symAction, act: act}
}
