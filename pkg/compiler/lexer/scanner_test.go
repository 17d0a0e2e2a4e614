package lexer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenthands/kbc/pkg/compiler/lexer"
)

func kinds(tokens []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestScannerKeywordsAndIdentifiers(t *testing.T) {
	tokens, err := lexer.NewScanner("int x = 42;").Analyze()
	require.NoError(t, err)
	require.Equal(t, []lexer.Kind{
		lexer.KindInt, lexer.KindIdentifier, lexer.KindAssign,
		lexer.KindIntConst, lexer.KindSemicolon, lexer.KindEOF,
	}, kinds(tokens))
	require.Equal(t, "x", tokens[1].Value)
	require.Equal(t, "42", tokens[3].Value)
}

func TestScannerOperators(t *testing.T) {
	tests := []struct {
		src  string
		kind lexer.Kind
	}{
		{"+", lexer.KindPlus},
		{"-", lexer.KindMinus},
		{"*", lexer.KindMultiply},
		{"/", lexer.KindDivide},
		{"=", lexer.KindAssign},
		{"<", lexer.KindLT},
		{">", lexer.KindGT},
		{"!", lexer.KindNEQ},
		{"?", lexer.KindEQ},
		{"&", lexer.KindAnd},
		{"|", lexer.KindOr},
		{"~", lexer.KindUnaryMinus},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens, err := lexer.NewScanner(tt.src).Analyze()
			require.NoError(t, err)
			require.Equal(t, []lexer.Kind{tt.kind, lexer.KindEOF}, kinds(tokens))
		})
	}
}

func TestScannerKeywordTable(t *testing.T) {
	tokens, err := lexer.NewScanner("int float if else while input output foo").Analyze()
	require.NoError(t, err)
	require.Equal(t, []lexer.Kind{
		lexer.KindInt, lexer.KindFloat, lexer.KindIf, lexer.KindElse,
		lexer.KindWhile, lexer.KindInput, lexer.KindOutput,
		lexer.KindIdentifier, lexer.KindEOF,
	}, kinds(tokens))
}

func TestScannerFloatConstant(t *testing.T) {
	tokens, err := lexer.NewScanner("3.14").Analyze()
	require.NoError(t, err)
	require.Equal(t, lexer.KindFloatConst, tokens[0].Kind)
	require.Equal(t, "3.14", tokens[0].Value)
}

func TestScannerLineAndColumn(t *testing.T) {
	tokens, err := lexer.NewScanner("int a;\na = 1;").Analyze()
	require.NoError(t, err)

	// 'a' on the second line starts at column 1.
	require.Equal(t, 2, tokens[3].Line)
	require.Equal(t, 1, tokens[3].Column)
	require.Equal(t, "a", tokens[3].Value)
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"digit expected after point", "1."},
		{"letter after integer", "12x"},
		{"dot after identifier", "abc.d"},
		{"tilde after identifier", "abc~"},
		{"second dot in float", "1.2.3"},
		{"unknown character", "#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lexer.NewScanner(tt.src).Analyze()
			require.Error(t, err)

			var lexErr *lexer.Error
			require.True(t, errors.As(err, &lexErr))
			require.Equal(t, 1, lexErr.Line)
		})
	}
}

func TestScannerEmptyInput(t *testing.T) {
	tokens, err := lexer.NewScanner("").Analyze()
	require.NoError(t, err)
	require.Equal(t, []lexer.Kind{lexer.KindEOF}, kinds(tokens))
}
