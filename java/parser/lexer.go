package parser

import (
	"unicode"
	"unicode/utf8"
)

// Lexer splits Java source into the tokens a declaration-level parse looks
// at. Whitespace and comments are consumed silently.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{input: input, file: file, line: 1, column: 1}
}

func (l *Lexer) Position() Position {
	return Position{File: l.file, Offset: l.pos, Line: l.line, Column: l.column}
}

func (l *Lexer) at(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance(n int) {
	for ; n > 0 && l.pos < len(l.input); n-- {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

// skipTrivia consumes whitespace, line comments and block comments.
func (l *Lexer) skipTrivia() {
	for l.pos < len(l.input) {
		switch c := l.at(0); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f':
			l.advance(1)
		case c == '/' && l.at(1) == '/':
			for l.pos < len(l.input) && l.at(0) != '\n' {
				l.advance(1)
			}
		case c == '/' && l.at(1) == '*':
			l.advance(2)
			for l.pos < len(l.input) && !(l.at(0) == '*' && l.at(1) == '/') {
				l.advance(1)
			}
			l.advance(2)
		default:
			return
		}
	}
}

func (l *Lexer) NextToken() Token {
	l.skipTrivia()
	start := l.Position()
	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	c := l.at(0)
	switch {
	case l.identStart():
		return l.scanWord(start)
	case isDigit(c) || (c == '.' && isDigit(l.at(1))):
		return l.scanNumber(start)
	case c == '\'':
		l.scanQuoted('\'')
		return l.emit(TokenCharLiteral, start)
	case c == '"' && l.at(1) == '"' && l.at(2) == '"':
		l.scanTextBlock()
		return l.emit(TokenTextBlock, start)
	case c == '"':
		l.scanQuoted('"')
		return l.emit(TokenStringLiteral, start)
	case c == '.' && l.at(1) == '.' && l.at(2) == '.':
		l.advance(3)
		return l.emit(TokenEllipsis, start)
	}

	if kind, ok := punctuation[c]; ok {
		l.advance(1)
		return l.emit(kind, start)
	}
	if isOperatorChar(c) {
		l.advance(1)
		return l.emit(TokenOperator, start)
	}
	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.advance(size)
	return l.emit(TokenError, start)
}

var punctuation = map[byte]TokenKind{
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	';': TokenSemicolon,
	',': TokenComma,
	'.': TokenDot,
	'@': TokenAt,
	'<': TokenLT,
	'>': TokenGT,
	'?': TokenQuestion,
	'&': TokenAmp,
	'=': TokenAssign,
}

func isOperatorChar(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%', '!', '~', '|', '^', ':':
		return true
	}
	return false
}

func (l *Lexer) emit(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) identStart() bool {
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func (l *Lexer) identPart() bool {
	if l.pos >= len(l.input) {
		return false
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) scanWord(start Position) Token {
	for l.identPart() {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		l.advance(size)
	}
	word := string(l.input[start.Offset:l.pos])

	// non-sealed is the only hyphenated keyword.
	if word == "non" && string(l.input[l.pos:min(l.pos+7, len(l.input))]) == "-sealed" {
		save := *l
		l.advance(7)
		if !l.identPart() {
			return l.emit(TokenIdent, start)
		}
		*l = save
	}

	if IsReserved(word) {
		return l.emit(TokenKeyword, start)
	}
	return l.emit(TokenIdent, start)
}

func (l *Lexer) scanNumber(start Position) Token {
	float, hex := false, false
	if l.at(0) == '0' && (l.at(1)|0x20 == 'x' || l.at(1)|0x20 == 'b') {
		hex = l.at(1)|0x20 == 'x'
		l.advance(2)
	}
	run := func() {
		for isDigit(l.at(0)) || l.at(0) == '_' || (hex && isHexDigit(l.at(0))) {
			l.advance(1)
		}
	}

	run()
	if l.at(0) == '.' && l.at(1) != '.' && !l.identStartAt(1) {
		float = true
		l.advance(1)
		run()
	}
	if e := l.at(0) | 0x20; (e == 'e' && !hex) || (e == 'p' && hex) {
		float = true
		l.advance(1)
		if l.at(0) == '+' || l.at(0) == '-' {
			l.advance(1)
		}
		for isDigit(l.at(0)) || l.at(0) == '_' {
			l.advance(1)
		}
	}
	switch l.at(0) | 0x20 {
	case 'f', 'd':
		if !hex || float {
			float = true
			l.advance(1)
		}
	case 'l':
		l.advance(1)
	}

	if float {
		return l.emit(TokenFloatLiteral, start)
	}
	return l.emit(TokenIntLiteral, start)
}

func (l *Lexer) identStartAt(n int) bool {
	c := l.at(n)
	return c == '_' || c == '$' || (c|0x20 >= 'a' && c|0x20 <= 'z')
}

// scanQuoted consumes a char or string literal, stopping at the closing
// quote or the end of the line.
func (l *Lexer) scanQuoted(quote byte) {
	l.advance(1)
	for l.pos < len(l.input) {
		switch l.at(0) {
		case '\\':
			l.advance(2)
			continue
		case quote:
			l.advance(1)
			return
		case '\n':
			return
		}
		l.advance(1)
	}
}

func (l *Lexer) scanTextBlock() {
	l.advance(3)
	for l.pos < len(l.input) {
		if l.at(0) == '\\' {
			l.advance(2)
			continue
		}
		if l.at(0) == '"' && l.at(1) == '"' && l.at(2) == '"' {
			l.advance(3)
			return
		}
		l.advance(1)
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch|0x20 >= 'a' && ch|0x20 <= 'f')
}
