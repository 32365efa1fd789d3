package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

// Only the distinctions a declaration-level parse needs are kept. Every
// reserved word lexes as TokenKeyword and contextual keywords (record,
// sealed, permits, var, ...) lex as TokenIdent; the parser inspects the
// literal.
const (
	TokenEOF TokenKind = iota
	TokenError
	TokenIdent
	TokenKeyword

	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock

	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenLT
	TokenGT
	TokenQuestion
	TokenAmp
	TokenAssign

	// TokenOperator covers every other operator character. They only occur
	// inside skipped regions or constant initializers.
	TokenOperator
)

var tokenKindNames = [...]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenIdent:         "Identifier",
	TokenKeyword:       "Keyword",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTextBlock:     "TextBlock",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenEllipsis:      "...",
	TokenAt:            "@",
	TokenLT:            "<",
	TokenGT:            ">",
	TokenQuestion:      "?",
	TokenAmp:           "&",
	TokenAssign:        "=",
	TokenOperator:      "Operator",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) && tokenKindNames[k] != "" {
		return tokenKindNames[k]
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// Is reports whether t is the keyword or contextual keyword word.
func (t Token) Is(word string) bool {
	return (t.Kind == TokenKeyword || t.Kind == TokenIdent) && t.Literal == word
}

var reserved = map[string]bool{}

func init() {
	for _, w := range []string{
		"abstract", "assert", "boolean", "break", "byte", "case", "catch",
		"char", "class", "const", "continue", "default", "do", "double",
		"else", "enum", "extends", "final", "finally", "float", "for", "goto",
		"if", "implements", "import", "instanceof", "int", "interface", "long",
		"native", "new", "package", "private", "protected", "public", "return",
		"short", "static", "strictfp", "super", "switch", "synchronized",
		"this", "throw", "throws", "transient", "try", "void", "volatile",
		"while", "true", "false", "null",
	} {
		reserved[w] = true
	}
}

// IsReserved reports whether ident is a reserved word (including the
// literals true, false and null).
func IsReserved(ident string) bool {
	return reserved[ident]
}

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

// IsPrimitive reports whether name is one of the eight primitive type keywords.
func IsPrimitive(name string) bool {
	return primitiveNames[name]
}
