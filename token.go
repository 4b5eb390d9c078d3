package tython

import "fmt"

// TokenType classifies a single lexical token.
type TokenType int

const (
	TokenInt TokenType = iota
	TokenFloat
	TokenString
	TokenIdentifier
	TokenKeyword
	TokenType_ // reserved-type-name token, e.g. "int", "num", "str"
	TokenMethod
	TokenDot
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenPower
	TokenLParen
	TokenRParen
	TokenLSquare
	TokenRSquare
	TokenEQ
	TokenEE
	TokenNE
	TokenLT
	TokenGT
	TokenLTE
	TokenGTE
	TokenComma
	TokenArrow
	TokenNewline
	TokenEOF
)

var tokenTypeNames = map[TokenType]string{
	TokenInt:        "INT",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenIdentifier: "IDENTIFIER",
	TokenKeyword:    "KEYWORD",
	TokenType_:      "TYPE",
	TokenMethod:     "METHOD",
	TokenDot:        "DOT",
	TokenPlus:       "PLUS",
	TokenMinus:      "MINUS",
	TokenMul:        "MUL",
	TokenDiv:        "DIV",
	TokenPower:      "POWER",
	TokenLParen:     "LPAREN",
	TokenRParen:     "RPAREN",
	TokenLSquare:    "LSQUARE",
	TokenRSquare:    "RSQUARE",
	TokenEQ:         "EQ",
	TokenEE:         "EE",
	TokenNE:         "NE",
	TokenLT:         "LT",
	TokenGT:         "GT",
	TokenLTE:        "LTE",
	TokenGTE:        "GTE",
	TokenComma:      "COMMA",
	TokenArrow:      "ARROW",
	TokenNewline:    "NEWLINE",
	TokenEOF:        "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is a single lexical element: a type, an optional literal payload,
// and the span of source it came from.
type Token struct {
	Type  TokenType
	Value any

	PosStart *Position
	PosEnd   *Position
}

// NewToken builds a token whose span runs from start to end. If end is
// nil, the span is a single position, advanced past start (matching the
// convention used for single-character tokens).
func NewToken(typ TokenType, value any, start *Position, end *Position) *Token {
	tok := &Token{
		Type:     typ,
		Value:    value,
		PosStart: start.Copy(),
	}
	if end != nil {
		tok.PosEnd = end.Copy()
	} else {
		tok.PosEnd = start.Copy()
		tok.PosEnd.Advance(0)
	}
	return tok
}

// Matches reports whether the token has the given type and, for keyword
// and symbol-like tokens, the given literal value.
func (t *Token) Matches(typ TokenType, value any) bool {
	return t.Type == typ && t.Value == value
}

func (t *Token) String() string {
	if t.Value != nil {
		return fmt.Sprintf("%s:%v", t.Type, t.Value)
	}
	return t.Type.String()
}
