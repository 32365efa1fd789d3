package parser

import (
	"io"
	"strings"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// Parser builds the declaration skeleton of a compilation unit. Executable
// code (method bodies, initializer blocks, field initializers, annotation
// arguments) is skipped by bracket balancing and kept only as Skipped nodes.
type Parser struct {
	file   string
	reader io.Reader
	input  []byte
	tokens []Token
	pos    int
	err    error
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a shorthand for ParseCompilationUnit(...).Finish() on in-memory source.
func Parse(src []byte, opts ...Option) *Node {
	p := &Parser{input: src}
	for _, opt := range opts {
		opt(p)
	}
	return p.Finish()
}

// Finish reads the remaining input and returns the compilation unit. It
// returns nil only when the input could not be read; see Err.
func (p *Parser) Finish() *Node {
	if p.input == nil && p.reader != nil {
		data, err := io.ReadAll(p.reader)
		if err != nil {
			p.err = err
			return nil
		}
		p.input = data
	}
	lexer := NewLexer(p.input, p.file)
	p.tokens = p.tokens[:0]
	p.pos = 0
	for {
		tok := lexer.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return p.parseCompilationUnit()
}

func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) is(word string) bool {
	return p.peek().Is(word)
}

func (p *Parser) accept(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) acceptWord(word string) bool {
	if p.is(word) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) atEOF() bool {
	return p.check(TokenEOF)
}

// mustProgress returns a function that reports whether the parser moved
// since it was created, forcing one token of progress when it did not.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.atEOF() {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{Kind: kind, Span: Span{Start: p.peek().Span.Start}}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else {
		n.Span.End = n.Span.Start
	}
	if n.Span.End.Offset < n.Span.Start.Offset {
		n.Span.End = n.Span.Start
	}
	return n
}

func (p *Parser) leaf(kind NodeKind) *Node {
	tok := p.advance()
	return &Node{Kind: kind, Span: tok.Span, Token: &tok}
}

func (p *Parser) identifier() *Node {
	if p.check(TokenIdent) {
		return p.leaf(KindIdentifier)
	}
	return p.errorNode("expected identifier")
}

func (p *Parser) expect(kind TokenKind) *Node {
	if p.accept(kind) {
		return nil
	}
	return p.errorNode("expected " + kind.String())
}

// errorNode records an error at the current token without consuming it.
func (p *Parser) errorNode(msg string) *Node {
	tok := p.peek()
	return &Node{
		Kind:  KindError,
		Span:  tok.Span,
		Error: &Error{Message: msg, Got: &tok},
	}
}

// skipBalanced consumes a bracketed region starting at the current open
// token and returns it as a Skipped node.
func (p *Parser) skipBalanced() *Node {
	node := p.startNode(KindSkipped)
	depth := 0
	for !p.atEOF() {
		switch p.advance().Kind {
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBrace, TokenRBracket:
			depth--
		}
		if depth <= 0 {
			break
		}
	}
	return p.finishNode(node)
}

// recoverMember skips to the end of the current member: past a semicolon
// or a balanced block at depth zero, or up to the closing brace of the
// enclosing body.
func (p *Parser) recoverMember() {
	for !p.atEOF() {
		switch p.peek().Kind {
		case TokenSemicolon:
			p.advance()
			return
		case TokenLBrace:
			p.skipBalanced()
			return
		case TokenRBrace:
			return
		case TokenLParen, TokenLBracket:
			p.skipBalanced()
		default:
			p.advance()
		}
	}
}

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)

	if p.is("package") || p.annotatedPackage() {
		node.AddChild(p.parsePackageDecl())
	}
	for p.is("import") {
		node.AddChild(p.parseImportDecl())
	}
	if p.moduleDecl() {
		node.AddChild(p.parseModuleDecl())
	}

	for !p.atEOF() {
		if p.accept(TokenSemicolon) {
			continue
		}
		progress := p.mustProgress()
		decl := p.parseTypeDecl()
		node.AddChild(decl)
		if decl.IsError() {
			p.recoverMember()
		}
		progress()
	}
	return p.finishNode(node)
}

func (p *Parser) annotatedPackage() bool {
	save := p.pos
	defer func() { p.pos = save }()
	for p.check(TokenAt) && !p.peekN(1).Is("interface") {
		p.parseAnnotation()
	}
	return p.is("package")
}

func (p *Parser) moduleDecl() bool {
	save := p.pos
	defer func() { p.pos = save }()
	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	p.acceptWord("open")
	return p.is("module") && p.peekN(1).Kind == TokenIdent
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}
	p.advance()
	node.AddChild(p.parseQualifiedName())
	node.AddChild(p.expect(TokenSemicolon))
	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.advance()
	if p.is("static") {
		node.AddChild(p.leaf(KindIdentifier))
	}
	node.AddChild(p.parseQualifiedName())
	if p.check(TokenDot) && p.peekN(1).Literal == "*" {
		p.advance()
		star := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Span: star.Span, Token: &star})
	}
	node.AddChild(p.expect(TokenSemicolon))
	return p.finishNode(node)
}

func (p *Parser) parseModuleDecl() *Node {
	node := p.startNode(KindModuleDecl)
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}
	if p.is("open") {
		node.AddChild(p.leaf(KindIdentifier))
	}
	p.advance()
	node.AddChild(p.parseQualifiedName())
	if p.check(TokenLBrace) {
		node.AddChild(p.skipBalanced())
	} else {
		node.AddChild(p.expect(TokenLBrace))
	}
	return p.finishNode(node)
}

func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)
	node.AddChild(p.identifier())
	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		node.AddChild(p.leaf(KindIdentifier))
	}
	return p.finishNode(node)
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.advance()
	node.AddChild(p.parseQualifiedName())
	if p.check(TokenLParen) {
		node.AddChild(p.skipBalanced())
	}
	return p.finishNode(node)
}

var modifierWords = map[string]bool{
	"public": true, "protected": true, "private": true, "abstract": true,
	"static": true, "final": true, "strictfp": true, "native": true,
	"synchronized": true, "transient": true, "volatile": true,
	"default": true, "sealed": true, "non-sealed": true,
}

func (p *Parser) atModifier() bool {
	tok := p.peek()
	if !modifierWords[tok.Literal] {
		return false
	}
	if tok.Kind == TokenIdent {
		// sealed and non-sealed are only modifiers when another
		// declaration word follows.
		next := p.peekN(1)
		return next.Kind == TokenIdent || next.Kind == TokenKeyword || next.Kind == TokenAt
	}
	return tok.Kind == TokenKeyword
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)
	for {
		switch {
		case p.check(TokenAt) && !p.peekN(1).Is("interface"):
			node.AddChild(p.parseAnnotation())
		case p.atModifier():
			node.AddChild(p.leaf(KindIdentifier))
		default:
			return p.finishNode(node)
		}
	}
}

func (p *Parser) atTypeDecl() bool {
	switch {
	case p.is("class"), p.is("interface"), p.is("enum"):
		return true
	case p.check(TokenAt):
		return p.peekN(1).Is("interface")
	case p.is("record"):
		return p.peekN(1).Kind == TokenIdent && (p.peekN(2).Kind == TokenLParen || p.peekN(2).Kind == TokenLT)
	}
	return false
}

func (p *Parser) parseTypeDecl() *Node {
	node := p.startNode(KindError)
	mods := p.parseModifiers()
	if !p.atTypeDecl() {
		err := p.errorNode("expected type declaration")
		err.Span.Start = node.Span.Start
		return err
	}
	return p.parseTypeDeclRest(node, mods)
}

func (p *Parser) parseTypeDeclRest(node, mods *Node) *Node {
	node.AddChild(mods)
	switch {
	case p.acceptWord("class"):
		node.Kind = KindClassDecl
		node.AddChild(p.identifier())
		p.parseOptionalTypeParameters(node)
		if p.is("extends") {
			node.AddChild(p.parseTypeClause(KindExtendsClause))
		}
		if p.is("implements") {
			node.AddChild(p.parseTypeClause(KindImplementsClause))
		}
		if p.is("permits") {
			node.AddChild(p.parseTypeClause(KindPermitsClause))
		}
		node.AddChild(p.parseBody(false))
	case p.acceptWord("interface"):
		node.Kind = KindInterfaceDecl
		node.AddChild(p.identifier())
		p.parseOptionalTypeParameters(node)
		if p.is("extends") {
			node.AddChild(p.parseTypeClause(KindExtendsClause))
		}
		if p.is("permits") {
			node.AddChild(p.parseTypeClause(KindPermitsClause))
		}
		node.AddChild(p.parseBody(false))
	case p.acceptWord("enum"):
		node.Kind = KindEnumDecl
		node.AddChild(p.identifier())
		if p.is("implements") {
			node.AddChild(p.parseTypeClause(KindImplementsClause))
		}
		node.AddChild(p.parseBody(true))
	case p.acceptWord("record"):
		node.Kind = KindRecordDecl
		node.AddChild(p.identifier())
		p.parseOptionalTypeParameters(node)
		node.AddChild(p.parseParameters())
		if p.is("implements") {
			node.AddChild(p.parseTypeClause(KindImplementsClause))
		}
		node.AddChild(p.parseBody(false))
	default:
		p.advance()
		p.advance()
		node.Kind = KindAnnotationDecl
		node.AddChild(p.identifier())
		node.AddChild(p.parseBody(false))
	}
	return p.finishNode(node)
}

func (p *Parser) parseOptionalTypeParameters(node *Node) {
	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
}

// parseTypeClause parses `extends A, B`, `implements ...`, `permits ...`
// and `throws ...` lists.
func (p *Parser) parseTypeClause(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	for {
		node.AddChild(p.parseType())
		if !p.accept(TokenComma) {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseBody(enum bool) *Node {
	node := p.startNode(KindBody)
	if !p.accept(TokenLBrace) {
		node.AddChild(p.errorNode("expected {"))
		return p.finishNode(node)
	}
	if enum {
		p.parseEnumConstants(node)
	}
	for !p.check(TokenRBrace) && !p.atEOF() {
		progress := p.mustProgress()
		switch {
		case p.accept(TokenSemicolon):
		case p.check(TokenLBrace):
			node.AddChild(p.skipBalanced())
		case p.is("static") && p.peekN(1).Kind == TokenLBrace:
			p.advance()
			node.AddChild(p.skipBalanced())
		default:
			member := p.parseMember()
			node.AddChild(member)
			if member.IsError() {
				p.recoverMember()
			}
		}
		progress()
	}
	node.AddChild(p.expect(TokenRBrace))
	return p.finishNode(node)
}

func (p *Parser) parseEnumConstants(body *Node) {
	for p.check(TokenIdent) || p.check(TokenAt) {
		node := p.startNode(KindEnumConstant)
		node.AddChild(p.parseModifiers())
		node.AddChild(p.identifier())
		if p.check(TokenLParen) {
			node.AddChild(p.skipBalanced())
		}
		if p.check(TokenLBrace) {
			node.AddChild(p.parseBody(false))
		}
		body.AddChild(p.finishNode(node))
		if !p.accept(TokenComma) {
			break
		}
	}
	p.accept(TokenSemicolon)
}

func (p *Parser) parseMember() *Node {
	node := p.startNode(KindError)
	mods := p.parseModifiers()
	if p.atTypeDecl() {
		return p.parseTypeDeclRest(node, mods)
	}
	node.AddChild(mods)
	p.parseOptionalTypeParameters(node)

	switch {
	case p.check(TokenIdent) && p.peekN(1).Kind == TokenLParen:
		node.Kind = KindConstructorDecl
		node.AddChild(p.identifier())
		node.AddChild(p.parseParameters())
		p.parseMethodRest(node)
		return p.finishNode(node)
	case p.check(TokenIdent) && p.peekN(1).Kind == TokenLBrace:
		// Compact canonical constructor of a record.
		node.Kind = KindConstructorDecl
		node.AddChild(p.identifier())
		node.AddChild(p.skipBalanced())
		return p.finishNode(node)
	}

	typ := p.parseType()
	if typ.IsError() {
		return typ
	}
	node.AddChild(typ)
	if !p.check(TokenIdent) {
		return p.errorNode("expected member name")
	}

	if p.peekN(1).Kind == TokenLParen {
		node.Kind = KindMethodDecl
		node.AddChild(p.identifier())
		node.AddChild(p.parseParameters())
		node.AddChild(p.parseDims())
		p.parseMethodRest(node)
		return p.finishNode(node)
	}

	node.Kind = KindFieldDecl
	for {
		node.AddChild(p.parseDeclarator())
		if !p.accept(TokenComma) {
			break
		}
	}
	node.AddChild(p.expect(TokenSemicolon))
	return p.finishNode(node)
}

// parseMethodRest handles what follows a parameter list: throws, an
// annotation default, and the body or terminating semicolon.
func (p *Parser) parseMethodRest(node *Node) {
	if p.is("throws") {
		node.AddChild(p.parseTypeClause(KindThrowsList))
	}
	if p.is("default") {
		def := p.startNode(KindDefaultValue)
		p.advance()
		def.AddChild(p.skipUntilTerminator())
		node.AddChild(p.finishNode(def))
	}
	switch {
	case p.check(TokenLBrace):
		node.AddChild(p.skipBalanced())
	default:
		node.AddChild(p.expect(TokenSemicolon))
	}
}

func (p *Parser) parseDeclarator() *Node {
	node := p.startNode(KindVariableDeclarator)
	node.AddChild(p.identifier())
	node.AddChild(p.parseDims())
	if p.accept(TokenAssign) {
		if lit := p.parseConstant(); lit != nil {
			node.AddChild(lit)
		} else {
			node.AddChild(p.skipUntilTerminator())
		}
	}
	return p.finishNode(node)
}

// parseConstant recognises an initializer made of exactly one literal,
// optionally signed, and returns it as a Literal node.
func (p *Parser) parseConstant() *Node {
	i := 0
	sign := ""
	if t := p.peek(); t.Kind == TokenOperator && (t.Literal == "-" || t.Literal == "+") {
		sign = t.Literal
		i++
	}
	lit := p.peekN(i)
	switch lit.Kind {
	case TokenIntLiteral, TokenFloatLiteral:
	case TokenCharLiteral, TokenStringLiteral, TokenTextBlock, TokenKeyword:
		if sign != "" || (lit.Kind == TokenKeyword && lit.Literal != "true" && lit.Literal != "false") {
			return nil
		}
	default:
		return nil
	}
	if next := p.peekN(i + 1).Kind; next != TokenSemicolon && next != TokenComma {
		return nil
	}
	start := p.peek().Span.Start
	for ; i >= 0; i-- {
		p.advance()
	}
	tok := Token{Kind: lit.Kind, Span: Span{Start: start, End: lit.Span.End}, Literal: sign + lit.Literal}
	return &Node{Kind: KindLiteral, Span: tok.Span, Token: &tok}
}

// skipUntilTerminator consumes an expression up to a semicolon, or a comma
// that starts the next declarator, at bracket depth zero.
func (p *Parser) skipUntilTerminator() *Node {
	node := p.startNode(KindSkipped)
	depth := 0
	for !p.atEOF() {
		tok := p.peek()
		switch tok.Kind {
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBracket:
			depth--
		case TokenRBrace:
			if depth == 0 {
				return p.finishNode(node)
			}
			depth--
		case TokenSemicolon:
			if depth == 0 {
				return p.finishNode(node)
			}
		case TokenComma:
			if depth == 0 && p.nextDeclarator() {
				return p.finishNode(node)
			}
		}
		p.advance()
	}
	return p.finishNode(node)
}

func (p *Parser) nextDeclarator() bool {
	if p.peekN(1).Kind != TokenIdent {
		return false
	}
	switch p.peekN(2).Kind {
	case TokenAssign, TokenComma, TokenSemicolon, TokenLBracket:
		return true
	}
	return false
}

func (p *Parser) parseDims() *Node {
	if !(p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket) {
		return nil
	}
	start := p.peek()
	var sb strings.Builder
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
		sb.WriteString("[]")
	}
	tok := Token{Kind: TokenLBracket, Span: Span{Start: start.Span.Start, End: p.tokens[p.pos-1].Span.End}, Literal: sb.String()}
	return &Node{Kind: KindDims, Span: tok.Span, Token: &tok}
}

// DimCount returns the number of [] pairs a Dims node stands for.
func (n *Node) DimCount() int {
	if n == nil || n.Kind != KindDims {
		return 0
	}
	return len(n.TokenLiteral()) / 2
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	if !p.accept(TokenLParen) {
		node.AddChild(p.errorNode("expected ("))
		return p.finishNode(node)
	}
	for !p.check(TokenRParen) && !p.atEOF() {
		progress := p.mustProgress()
		node.AddChild(p.parseParameter())
		if !p.accept(TokenComma) {
			break
		}
		progress()
	}
	node.AddChild(p.expect(TokenRParen))
	return p.finishNode(node)
}

func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())
	typ := p.parseType()
	node.AddChild(typ)
	if typ.IsError() {
		return p.finishNode(node)
	}
	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	if p.check(TokenEllipsis) {
		node.AddChild(p.leaf(KindEllipsis))
	}
	switch {
	case p.is("this"):
		node.Kind = KindReceiverParameter
		p.advance()
	case p.check(TokenIdent) && p.peekN(1).Kind == TokenDot && p.peekN(2).Is("this"):
		node.Kind = KindReceiverParameter
		p.advance()
		p.advance()
		p.advance()
	default:
		node.AddChild(p.identifier())
		node.AddChild(p.parseDims())
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	p.advance()
	for !p.check(TokenGT) && !p.atEOF() {
		progress := p.mustProgress()
		param := p.startNode(KindTypeParameter)
		for p.check(TokenAt) {
			param.AddChild(p.parseAnnotation())
		}
		param.AddChild(p.identifier())
		if p.is("extends") {
			bound := p.startNode(KindExtendsClause)
			p.advance()
			for {
				bound.AddChild(p.parseType())
				if !p.accept(TokenAmp) {
					break
				}
			}
			param.AddChild(p.finishNode(bound))
		}
		node.AddChild(p.finishNode(param))
		if !p.accept(TokenComma) {
			break
		}
		progress()
	}
	node.AddChild(p.expect(TokenGT))
	return p.finishNode(node)
}

// parseType parses a possibly annotated, possibly array type. Class types
// become a Type node whose Identifier children are the dotted segments;
// type arguments hang off the segment they follow.
func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}
	tok := p.peek()
	switch {
	case tok.Kind == TokenKeyword && (IsPrimitive(tok.Literal) || tok.Literal == "void"):
		node.AddChild(p.leaf(KindIdentifier))
	case tok.Kind == TokenIdent:
		for {
			seg := p.leaf(KindIdentifier)
			if p.check(TokenLT) {
				seg.AddChild(p.parseTypeArguments())
				seg.Span.End = seg.Children[len(seg.Children)-1].Span.End
			}
			node.AddChild(seg)
			if !p.check(TokenDot) {
				break
			}
			i := 1
			for p.peekN(i).Kind == TokenAt {
				i++
				for p.peekN(i).Kind == TokenIdent || p.peekN(i).Kind == TokenDot {
					i++
				}
			}
			if p.peekN(i).Kind != TokenIdent {
				break
			}
			p.advance()
			for p.check(TokenAt) {
				p.parseAnnotation()
			}
		}
	default:
		return p.errorNode("expected type")
	}
	p.finishNode(node)

	result := node
	for {
		save := p.pos
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		if !(p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket) {
			p.pos = save
			break
		}
		p.advance()
		p.advance()
		arr := &Node{Kind: KindArrayType, Span: Span{Start: result.Span.Start}}
		arr.AddChild(result)
		result = p.finishNode(arr)
	}
	return result
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.advance()
	for !p.check(TokenGT) && !p.atEOF() {
		progress := p.mustProgress()
		for p.check(TokenAt) {
			p.parseAnnotation()
		}
		if p.check(TokenQuestion) {
			node.AddChild(p.parseWildcard())
		} else {
			node.AddChild(p.parseType())
		}
		if !p.accept(TokenComma) {
			break
		}
		progress()
	}
	node.AddChild(p.expect(TokenGT))
	return p.finishNode(node)
}

func (p *Parser) parseWildcard() *Node {
	node := p.startNode(KindWildcard)
	tok := p.advance()
	node.Token = &tok
	switch {
	case p.is("extends"):
		bound := p.startNode(KindExtendsClause)
		p.advance()
		bound.AddChild(p.parseType())
		node.AddChild(p.finishNode(bound))
	case p.is("super"):
		bound := p.startNode(KindSuperClause)
		p.advance()
		bound.AddChild(p.parseType())
		node.AddChild(p.finishNode(bound))
	}
	return p.finishNode(node)
}
