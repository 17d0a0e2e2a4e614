package parser

import "github.com/agenthands/kbc/pkg/compiler/lexer"

// rule is the right-hand side of a production. An empty rule is an
// epsilon production.
type rule []symbol

// parseTable maps non-terminal x lookahead kind to the production to expand.
// It is built once and treated as immutable data.
var parseTable = buildTable()

// exprFirst is the first set of every expression level.
var exprFirst = []lexer.Kind{
	lexer.KindUnaryMinus, lexer.KindIdentifier, lexer.KindIntConst,
	lexer.KindFloatConst, lexer.KindLParen,
}

// stmtFirst is the first set of a statement.
var stmtFirst = []lexer.Kind{
	lexer.KindInt, lexer.KindFloat, lexer.KindIf, lexer.KindIdentifier,
	lexer.KindWhile, lexer.KindInput, lexer.KindOutput,
}

func buildTable() map[nonTerminal]map[lexer.Kind]rule {
	table := make(map[nonTerminal]map[lexer.Kind]rule)

	row := func(nt nonTerminal, kinds []lexer.Kind, r rule) {
		if table[nt] == nil {
			table[nt] = make(map[lexer.Kind]rule)
		}
		for _, k := range kinds {
			table[nt][k] = r
		}
	}
	one := func(nt nonTerminal, k lexer.Kind, r rule) {
		row(nt, []lexer.Kind{k}, r)
	}

	// Statements. The same productions drive the program root and the
	// statement lists inside blocks.
	for _, nt := range []nonTerminal{ntProgram, ntStmtList} {
		one(nt, lexer.KindInt, rule{a(actPushIntType), t(lexer.KindInt), n(ntDecl), n(ntStmtList)})
		one(nt, lexer.KindFloat, rule{a(actPushFloatType), t(lexer.KindFloat), n(ntDecl), n(ntStmtList)})
		one(nt, lexer.KindIf, rule{
			t(lexer.KindIf), t(lexer.KindLParen), n(ntLogicExpr), t(lexer.KindRParen),
			a(actAfterIfCond), n(ntBlock), n(ntElseClause), n(ntStmtList),
		})
		one(nt, lexer.KindIdentifier, rule{
			a(actSaveIdent), t(lexer.KindIdentifier), n(ntAssignTail),
			t(lexer.KindSemicolon), n(ntStmtList),
		})
		one(nt, lexer.KindWhile, rule{
			t(lexer.KindWhile), a(actWhileStart), t(lexer.KindLParen), n(ntLogicExpr),
			t(lexer.KindRParen), a(actAfterWhileCond), n(ntBlock), a(actEndWhile), n(ntStmtList),
		})
		one(nt, lexer.KindInput, rule{t(lexer.KindInput), n(ntInputStmt), n(ntStmtList)})
		one(nt, lexer.KindOutput, rule{
			t(lexer.KindOutput), n(ntLogicExpr), a(actGenOutput),
			t(lexer.KindSemicolon), n(ntStmtList),
		})
	}
	one(ntProgram, lexer.KindEOF, rule{})
	one(ntStmtList, lexer.KindEOF, rule{})
	one(ntStmtList, lexer.KindRCurly, rule{})

	// Declarations after 'int' / 'float'.
	one(ntDecl, lexer.KindIdentifier, rule{
		a(actSaveIdent), t(lexer.KindIdentifier), a(actAddVarDecl),
		n(ntDeclTail), t(lexer.KindSemicolon),
	})
	one(ntDecl, lexer.KindLSquare, rule{t(lexer.KindLSquare), n(ntDeclArray)})

	// '[' Expr ']' name ;  — dynamic size, evaluated at run time.
	row(ntDeclArray, exprFirst, rule{
		n(ntExpr), t(lexer.KindRSquare), a(actSaveIdent), t(lexer.KindIdentifier),
		a(actAddDynArrayDecl), t(lexer.KindSemicolon),
	})
	// '[' ']' name '=' '{' initialisers '}' ;  — size from the list.
	one(ntDeclArray, lexer.KindRSquare, rule{
		t(lexer.KindRSquare), a(actSaveIdent), t(lexer.KindIdentifier),
		a(actAddArrayDeclForInit), t(lexer.KindAssign), a(actArrayInitStart),
		t(lexer.KindLCurly), n(ntInitList), t(lexer.KindRCurly),
		a(actArrayInitEnd), t(lexer.KindSemicolon),
	})

	// Optional scalar initialiser.
	one(ntDeclTail, lexer.KindAssign, rule{
		a(actEmitAssignTarget), t(lexer.KindAssign), n(ntExpr), a(actGenAssign),
	})
	one(ntDeclTail, lexer.KindSemicolon, rule{})

	// x = Expr ;   |   x [ LogicExpr ] = Expr ;
	one(ntAssignTail, lexer.KindAssign, rule{
		a(actEmitAssignTarget), t(lexer.KindAssign), n(ntExpr), a(actGenAssign),
	})
	one(ntAssignTail, lexer.KindLSquare, rule{
		a(actEmitAssignTarget), t(lexer.KindLSquare), n(ntLogicExpr), t(lexer.KindRSquare),
		t(lexer.KindAssign), n(ntExpr), a(actGenArrayAssign),
	})

	one(ntBlock, lexer.KindLCurly, rule{t(lexer.KindLCurly), n(ntStmtList), t(lexer.KindRCurly)})

	one(ntElseClause, lexer.KindElse, rule{t(lexer.KindElse), a(actStartElse), n(ntBlock), a(actEndIf)})
	row(ntElseClause, stmtFirst, rule{a(actEndIf)})
	one(ntElseClause, lexer.KindRCurly, rule{a(actEndIf)})
	one(ntElseClause, lexer.KindEOF, rule{a(actEndIf)})

	// { Expr, Expr, ... } — possibly empty.
	row(ntInitList, exprFirst, rule{n(ntExpr), a(actCountInit), n(ntInitListRest)})
	one(ntInitList, lexer.KindRCurly, rule{})
	one(ntInitListRest, lexer.KindComma, rule{
		t(lexer.KindComma), n(ntExpr), a(actCountInit), n(ntInitListRest),
	})
	one(ntInitListRest, lexer.KindRCurly, rule{})

	// input x ;   |   input x [ LogicExpr ] ;
	one(ntInputStmt, lexer.KindIdentifier, rule{
		a(actSaveIdent), t(lexer.KindIdentifier), n(ntInputTail), t(lexer.KindSemicolon),
	})
	one(ntInputTail, lexer.KindLSquare, rule{
		a(actEmitInputTarget), t(lexer.KindLSquare), n(ntLogicExpr), t(lexer.KindRSquare),
		a(actGenInputArray),
	})
	one(ntInputTail, lexer.KindSemicolon, rule{a(actEmitInputTarget), a(actGenInput)})

	// Expression levels, lowest to highest precedence. Each tail is either a
	// binary operator followed by the next level, or epsilon on its follow set.
	row(ntLogicExpr, exprFirst, rule{n(ntAndExpr), n(ntOrTail)})

	one(ntOrTail, lexer.KindOr, rule{t(lexer.KindOr), n(ntAndExpr), a(actGenOr), n(ntOrTail)})
	row(ntOrTail, []lexer.Kind{lexer.KindRParen, lexer.KindSemicolon, lexer.KindRSquare}, rule{})

	row(ntAndExpr, exprFirst, rule{n(ntEqExpr), n(ntAndTail)})

	one(ntAndTail, lexer.KindAnd, rule{t(lexer.KindAnd), n(ntEqExpr), a(actGenAnd), n(ntAndTail)})
	row(ntAndTail, []lexer.Kind{
		lexer.KindOr, lexer.KindRParen, lexer.KindSemicolon, lexer.KindRSquare,
	}, rule{})

	row(ntEqExpr, exprFirst, rule{n(ntRelExpr), n(ntEqTail)})

	one(ntEqTail, lexer.KindEQ, rule{t(lexer.KindEQ), n(ntRelExpr), a(actGenEQ), n(ntEqTail)})
	one(ntEqTail, lexer.KindNEQ, rule{t(lexer.KindNEQ), n(ntRelExpr), a(actGenNEQ), n(ntEqTail)})
	row(ntEqTail, []lexer.Kind{
		lexer.KindAnd, lexer.KindOr, lexer.KindRParen, lexer.KindSemicolon, lexer.KindRSquare,
	}, rule{})

	row(ntRelExpr, exprFirst, rule{n(ntExpr), n(ntRelTail)})

	one(ntRelTail, lexer.KindLT, rule{t(lexer.KindLT), n(ntExpr), a(actGenLT), n(ntRelTail)})
	one(ntRelTail, lexer.KindGT, rule{t(lexer.KindGT), n(ntExpr), a(actGenGT), n(ntRelTail)})
	row(ntRelTail, []lexer.Kind{
		lexer.KindEQ, lexer.KindNEQ, lexer.KindAnd, lexer.KindOr,
		lexer.KindRParen, lexer.KindSemicolon, lexer.KindRSquare,
	}, rule{})

	row(ntExpr, exprFirst, rule{n(ntTerm), n(ntAddTail)})

	one(ntAddTail, lexer.KindPlus, rule{t(lexer.KindPlus), n(ntTerm), a(actGenPlus), n(ntAddTail)})
	one(ntAddTail, lexer.KindMinus, rule{t(lexer.KindMinus), n(ntTerm), a(actGenMinus), n(ntAddTail)})
	row(ntAddTail, []lexer.Kind{
		lexer.KindLT, lexer.KindGT, lexer.KindEQ, lexer.KindNEQ, lexer.KindAnd, lexer.KindOr,
		lexer.KindRParen, lexer.KindSemicolon, lexer.KindRSquare, lexer.KindComma, lexer.KindRCurly,
	}, rule{})

	row(ntTerm, exprFirst, rule{n(ntFactor), n(ntMulTail)})

	one(ntMulTail, lexer.KindMultiply, rule{t(lexer.KindMultiply), n(ntFactor), a(actGenMultiply), n(ntMulTail)})
	one(ntMulTail, lexer.KindDivide, rule{t(lexer.KindDivide), n(ntFactor), a(actGenDivide), n(ntMulTail)})
	row(ntMulTail, []lexer.Kind{
		lexer.KindPlus, lexer.KindMinus, lexer.KindLT, lexer.KindGT, lexer.KindEQ, lexer.KindNEQ,
		lexer.KindAnd, lexer.KindOr, lexer.KindRParen, lexer.KindSemicolon, lexer.KindRSquare,
		lexer.KindComma, lexer.KindRCurly,
	}, rule{})

	one(ntFactor, lexer.KindUnaryMinus, rule{t(lexer.KindUnaryMinus), n(ntFactor), a(actGenUminus)})
	one(ntFactor, lexer.KindIdentifier, rule{a(actSaveFactor), t(lexer.KindIdentifier), n(ntFactorTail)})
	one(ntFactor, lexer.KindIntConst, rule{t(lexer.KindIntConst)})
	one(ntFactor, lexer.KindFloatConst, rule{t(lexer.KindFloatConst)})
	one(ntFactor, lexer.KindLParen, rule{t(lexer.KindLParen), n(ntLogicExpr), t(lexer.KindRParen)})

	// An identifier factor is either a plain operand or an array access; the
	// decision needs one more token, hence the saved-factor slot.
	one(ntFactorTail, lexer.KindLSquare, rule{
		a(actEmitArrayName), t(lexer.KindLSquare), n(ntLogicExpr), t(lexer.KindRSquare),
		a(actGenArrayIndex),
	})
	row(ntFactorTail, []lexer.Kind{
		lexer.KindMultiply, lexer.KindDivide, lexer.KindPlus, lexer.KindMinus,
		lexer.KindLT, lexer.KindGT, lexer.KindEQ, lexer.KindNEQ, lexer.KindAnd, lexer.KindOr,
		lexer.KindRParen, lexer.KindSemicolon, lexer.KindRSquare, lexer.KindComma, lexer.KindRCurly,
	}, rule{a(actEmitFactorIfNotArray)})

	return table
}
