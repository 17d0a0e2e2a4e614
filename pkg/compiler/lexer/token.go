package lexer

// Kind represents the type of token identified by the scanner.
// The integer codes are stable and partitioned by category.
type Kind uint8

const (
	// Keywords (1-7)
	KindInt    Kind = 1
	KindFloat  Kind = 2
	KindIf     Kind = 3
	KindElse   Kind = 4
	KindWhile  Kind = 5
	KindOutput Kind = 6
	KindInput  Kind = 7

	// Identifiers (10)
	KindIdentifier Kind = 10

	// Constants (11-12)
	KindIntConst   Kind = 11
	KindFloatConst Kind = 12

	// Brackets and separators (20-28)
	KindLParen    Kind = 20 // (
	KindRParen    Kind = 21 // )
	KindLSquare   Kind = 22 // [
	KindRSquare   Kind = 23 // ]
	KindLCurly    Kind = 24 // {
	KindRCurly    Kind = 25 // }
	KindSemicolon Kind = 26 // ;
	KindComma     Kind = 27 // ,
	KindDot       Kind = 28 // .

	// Operators (30-41)
	KindPlus       Kind = 30 // +
	KindMinus      Kind = 31 // -
	KindMultiply   Kind = 32 // *
	KindDivide     Kind = 33 // /
	KindAssign     Kind = 34 // =
	KindLT         Kind = 35 // <
	KindGT         Kind = 36 // >
	KindNEQ        Kind = 37 // !
	KindEQ         Kind = 38 // ?
	KindAnd        Kind = 39 // &
	KindOr         Kind = 40 // |
	KindUnaryMinus Kind = 41 // ~

	// Sentinels (99-100)
	KindEOF   Kind = 99
	KindError Kind = 100
)

var kindNames = map[Kind]string{
	KindInt:        "int",
	KindFloat:      "float",
	KindIf:         "if",
	KindElse:       "else",
	KindWhile:      "while",
	KindOutput:     "output",
	KindInput:      "input",
	KindIdentifier: "identifier",
	KindIntConst:   "integer constant",
	KindFloatConst: "float constant",
	KindLParen:     "'('",
	KindRParen:     "')'",
	KindLSquare:    "'['",
	KindRSquare:    "']'",
	KindLCurly:     "'{'",
	KindRCurly:     "'}'",
	KindSemicolon:  "';'",
	KindComma:      "','",
	KindDot:        "'.'",
	KindPlus:       "'+'",
	KindMinus:      "'-'",
	KindMultiply:   "'*'",
	KindDivide:     "'/'",
	KindAssign:     "'='",
	KindLT:         "'<'",
	KindGT:         "'>'",
	KindNEQ:        "'!'",
	KindEQ:         "'?'",
	KindAnd:        "'&'",
	KindOr:         "'|'",
	KindUnaryMinus: "'~'",
	KindEOF:        "end of input",
	KindError:      "error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is an immutable lexical unit. Value holds the raw lexeme;
// constants are parsed to numbers later, by the parser.
type Token struct {
	Kind   Kind
	Value  string
	Line   int
	Column int
}

func (t Token) String() string {
	if t.Value != "" {
		return t.Kind.String() + ": " + t.Value
	}
	return t.Kind.String()
}
