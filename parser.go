package tython

// parseResult carries the outcome of a single production: a node or an
// error, plus the count of tokens consumed so a caller can rewind a
// speculative attempt. advanceCount tracks total tokens consumed across
// every registered sub-result; toReverseCount is how far a failed
// tryRegister needs the caller to reverse().
type parseResult struct {
	node           Node
	err            *Error
	advanceCount   int
	toReverseCount int
}

func (r *parseResult) registerAdvancement() {
	r.advanceCount++
}

// register folds a sub-result into r, returning its node (nil on error).
func (r *parseResult) register(sub *parseResult) Node {
	r.advanceCount += sub.advanceCount
	if sub.err != nil {
		r.err = sub.err
	}
	return sub.node
}

// tryRegister folds a sub-result speculatively: on failure it leaves
// r.err untouched and records how far the caller must reverse().
func (r *parseResult) tryRegister(sub *parseResult) Node {
	if sub.err != nil {
		r.toReverseCount = sub.advanceCount
		return nil
	}
	return r.register(sub)
}

func (r *parseResult) success(node Node) *parseResult {
	r.node = node
	return r
}

// failure preserves the deepest error: a later failure only overrides an
// already-recorded one if this result has consumed no tokens at all.
func (r *parseResult) failure(err *Error) *parseResult {
	if r.err == nil || r.advanceCount == 0 {
		r.err = err
	}
	return r
}

// opMatcher matches either a bare token type, or a token type plus a
// specific literal value (for keyword/punctuation tokens like `:` and
// `and`).
type opMatcher struct {
	typ   TokenType
	value any
	byVal bool
}

func typeOp(t TokenType) opMatcher  { return opMatcher{typ: t} }
func keywordOp(kw string) opMatcher { return opMatcher{typ: TokenKeyword, value: kw, byVal: true} }

func (p *Parser) matchesAny(ops []opMatcher) bool {
	for _, m := range ops {
		if m.byVal {
			if p.current.Matches(m.typ, m.value) {
				return true
			}
		} else if p.current.Type == m.typ {
			return true
		}
	}
	return false
}

// Parser performs recursive-descent parsing of a token stream into a
// Program. Productions return *parseResult rather than panicking; the
// statement list and the optional expression after `return` use
// tryRegister + reverse to back out of a failed speculative statement.
type Parser struct {
	tokens  []*Token
	tokIdx  int
	current *Token
}

// NewParser prepares a parser over a complete token stream (as produced
// by Lex, always ending in EOF).
func NewParser(tokens []*Token) *Parser {
	p := &Parser{tokens: tokens, tokIdx: -1}
	p.advance()
	return p
}

// Parse consumes the full token stream, returning the Program root or the
// first (deepest) syntax error encountered.
func Parse(tokens []*Token) (*Program, *Error) {
	logger.Debugf("parsing %d tokens", len(tokens))
	p := NewParser(tokens)
	res := p.statements()
	if res.err == nil && p.current.Type != TokenEOF {
		return nil, NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd,
			"Expected '+', '-', '*', '/', or '^'")
	}
	if res.err != nil {
		logger.Debugf("parse error: %v", res.err)
		return nil, res.err
	}
	return res.node.(*Program), nil
}

func (p *Parser) advance() *Token {
	p.tokIdx++
	p.updateCurrent()
	return p.current
}

func (p *Parser) reverse(amount int) *Token {
	p.tokIdx -= amount
	p.updateCurrent()
	return p.current
}

func (p *Parser) updateCurrent() {
	if p.tokIdx < len(p.tokens) {
		p.current = p.tokens[p.tokIdx]
	}
}

// statements : NEWLINE* statement (NEWLINE+ statement)* NEWLINE*
func (p *Parser) statements() *parseResult {
	res := &parseResult{}
	var stmts []Node
	start := p.current.PosStart.Copy()

	for p.current.Type == TokenNewline {
		res.registerAdvancement()
		p.advance()
	}

	stmt := res.register(p.statement())
	if res.err != nil {
		return res
	}
	stmts = append(stmts, stmt)

	for {
		newlineCount := 0
		for p.current.Type == TokenNewline {
			res.registerAdvancement()
			p.advance()
			newlineCount++
		}
		if newlineCount == 0 {
			break
		}

		stmt := res.tryRegister(p.statement())
		if stmt == nil {
			p.reverse(res.toReverseCount)
			break
		}
		stmts = append(stmts, stmt)
	}

	return res.success(&Program{span: newSpan(start, p.current.PosEnd.Copy()), Statements: stmts})
}

// statement : KEYWORD:return expr? | KEYWORD:continue | KEYWORD:break | expr
func (p *Parser) statement() *parseResult {
	res := &parseResult{}
	start := p.current.PosStart.Copy()

	if p.current.Matches(TokenKeyword, "return") {
		res.registerAdvancement()
		p.advance()

		expr := res.tryRegister(p.expr())
		if expr == nil {
			p.reverse(res.toReverseCount)
			return res.success(&Return{span: newSpan(start, p.current.PosStart.Copy())})
		}
		return res.success(&Return{span: newSpan(start, p.current.PosStart.Copy()), Expr: expr})
	}

	if p.current.Matches(TokenKeyword, "continue") {
		res.registerAdvancement()
		p.advance()
		return res.success(&Continue{span: newSpan(start, p.current.PosStart.Copy())})
	}

	if p.current.Matches(TokenKeyword, "break") {
		res.registerAdvancement()
		p.advance()
		return res.success(&Break{span: newSpan(start, p.current.PosStart.Copy())})
	}

	expr := res.register(p.expr())
	if res.err != nil {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosStart.Copy(),
			"Expected expression, 'return', 'continue', or 'break'"))
	}
	return res.success(expr)
}

// expr : TYPE IDENTIFIER EQ expr | comp_expr ((KEYWORD:and|KEYWORD:or) comp_expr)*
func (p *Parser) expr() *parseResult {
	res := &parseResult{}

	if p.current.Type == TokenType_ {
		typeTok := p.current
		start := typeTok.PosStart.Copy()
		res.registerAdvancement()
		p.advance()

		if p.current.Type != TokenIdentifier {
			return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected identifier"))
		}
		nameTok := p.current
		res.registerAdvancement()
		p.advance()

		if p.current.Type != TokenEQ {
			return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected '='"))
		}
		res.registerAdvancement()
		p.advance()

		declared := typeTagFromKeyword(typeTok.Value.(string))

		value := res.register(p.expr())
		if res.err != nil {
			return res
		}

		return res.success(&VarAssign{
			span:         newSpan(start, p.current.PosEnd.Copy()),
			NameTok:      nameTok,
			Value:        value,
			DeclaredType: declared,
		})
	}

	node := res.register(p.binOp(p.compExpr, []opMatcher{keywordOp("and"), keywordOp("or")}, nil))
	if res.err != nil {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected expression"))
	}
	return res.success(node)
}

// compExpr : KEYWORD:not comp_expr | arith ((EE|NE|LT|GT|LTE|GTE) arith)*
func (p *Parser) compExpr() *parseResult {
	res := &parseResult{}

	if p.current.Matches(TokenKeyword, "not") {
		opTok := p.current
		res.registerAdvancement()
		p.advance()

		operand := res.register(p.compExpr())
		if res.err != nil {
			return res
		}
		_, end := operand.Span()
		return res.success(&UnaryOp{span: newSpan(opTok.PosStart, end), OpTok: opTok, Operand: operand})
	}

	node := res.register(p.binOp(p.arithExpr, []opMatcher{
		typeOp(TokenEE), typeOp(TokenNE), typeOp(TokenLT), typeOp(TokenGT), typeOp(TokenLTE), typeOp(TokenGTE),
	}, nil))
	if res.err != nil {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd,
			"Expected int, float, identifier, '+', '-', '(', or 'not'"))
	}
	return res.success(node)
}

func (p *Parser) arithExpr() *parseResult {
	return p.binOp(p.term, []opMatcher{typeOp(TokenPlus), typeOp(TokenMinus)}, nil)
}

func (p *Parser) term() *parseResult {
	return p.binOp(p.factor, []opMatcher{typeOp(TokenMul), typeOp(TokenDiv)}, nil)
}

// factor : (PLUS|MINUS) factor | power
func (p *Parser) factor() *parseResult {
	res := &parseResult{}
	tok := p.current

	if tok.Type == TokenPlus || tok.Type == TokenMinus {
		res.registerAdvancement()
		p.advance()
		operand := res.register(p.factor())
		if res.err != nil {
			return res
		}
		_, end := operand.Span()
		return res.success(&UnaryOp{span: newSpan(tok.PosStart, end), OpTok: tok, Operand: operand})
	}

	return p.power()
}

// power : call (POWER factor)* -- the right operand recurses through
// factor (not term), which is what makes chained `^` right-associative.
func (p *Parser) power() *parseResult {
	return p.binOp(p.call, []opMatcher{typeOp(TokenPower)}, p.factor)
}

// call : atom (LPAREN (expr (COMMA expr)*)? RPAREN)?
func (p *Parser) call() *parseResult {
	res := &parseResult{}
	atom := res.register(p.atom())
	if res.err != nil {
		return res
	}

	if p.current.Type != TokenLParen {
		return res.success(atom)
	}

	start, _ := atom.Span()
	res.registerAdvancement()
	p.advance()

	var args []Node
	if p.current.Type == TokenRParen {
		res.registerAdvancement()
		p.advance()
	} else {
		arg := res.register(p.expr())
		if res.err != nil {
			return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected expression"))
		}
		args = append(args, arg)

		for p.current.Type == TokenComma {
			res.registerAdvancement()
			p.advance()
			arg := res.register(p.expr())
			if res.err != nil {
				return res
			}
			args = append(args, arg)
		}

		if p.current.Type != TokenRParen {
			return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected ',' or ')'"))
		}
		res.registerAdvancement()
		p.advance()
	}

	return res.success(&Call{span: newSpan(start, p.current.PosEnd.Copy()), Callee: atom, Args: args})
}

// atom : INT|FLOAT|STRING | IDENTIFIER (DOT METHOD)? | LPAREN expr RPAREN
//
//	| list_expr | if_expr | for_expr | while_expr | func_def
func (p *Parser) atom() *parseResult {
	res := &parseResult{}
	tok := p.current

	switch tok.Type {
	case TokenInt:
		res.registerAdvancement()
		p.advance()
		return res.success(&IntLit{span: newSpan(tok.PosStart, tok.PosEnd), Tok: tok})

	case TokenFloat:
		res.registerAdvancement()
		p.advance()
		return res.success(&FloatLit{span: newSpan(tok.PosStart, tok.PosEnd), Tok: tok})

	case TokenString:
		res.registerAdvancement()
		p.advance()
		return res.success(&StringLit{span: newSpan(tok.PosStart, tok.PosEnd), Tok: tok})

	case TokenIdentifier:
		res.registerAdvancement()
		p.advance()

		if p.current.Type == TokenDot {
			res.registerAdvancement()
			p.advance()

			if p.current.Type != TokenMethod {
				return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected method"))
			}
			res.registerAdvancement()
			p.advance()
		}

		return res.success(&VarAccess{span: newSpan(tok.PosStart, tok.PosEnd), NameTok: tok})

	case TokenLParen:
		res.registerAdvancement()
		p.advance()
		expr := res.register(p.expr())
		if res.err != nil {
			return res
		}
		if p.current.Type != TokenRParen {
			return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected ')'"))
		}
		res.registerAdvancement()
		p.advance()
		return res.success(expr)

	case TokenLSquare:
		listExpr := res.register(p.listExpr())
		if res.err != nil {
			return res
		}
		return res.success(listExpr)
	}

	if tok.Matches(TokenKeyword, "if") {
		n := res.register(p.ifExpr())
		if res.err != nil {
			return res
		}
		return res.success(n)
	}
	if tok.Matches(TokenKeyword, "for") {
		n := res.register(p.forExpr())
		if res.err != nil {
			return res
		}
		return res.success(n)
	}
	if tok.Matches(TokenKeyword, "while") {
		n := res.register(p.whileExpr())
		if res.err != nil {
			return res
		}
		return res.success(n)
	}
	if tok.Matches(TokenKeyword, "def") {
		n := res.register(p.funcDef())
		if res.err != nil {
			return res
		}
		return res.success(n)
	}

	return res.failure(NewError(SyntaxErrorKind, tok.PosStart, tok.PosEnd,
		"Expected int, float, identifier, '+', '-' or '('"))
}

// listExpr : LSQUARE (expr (COMMA expr)*)? RSQUARE
func (p *Parser) listExpr() *parseResult {
	res := &parseResult{}
	var elements []Node
	start := p.current.PosStart.Copy()

	if p.current.Type != TokenLSquare {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected '['"))
	}
	res.registerAdvancement()
	p.advance()

	if p.current.Type == TokenRSquare {
		res.registerAdvancement()
		p.advance()
	} else {
		elem := res.register(p.expr())
		if res.err != nil {
			return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected expression or ']'"))
		}
		elements = append(elements, elem)

		for p.current.Type == TokenComma {
			res.registerAdvancement()
			p.advance()
			elem := res.register(p.expr())
			if res.err != nil {
				return res
			}
			elements = append(elements, elem)
		}

		if p.current.Type != TokenRSquare {
			return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected ',' or ']'"))
		}
		res.registerAdvancement()
		p.advance()
	}

	return res.success(&ListLit{span: newSpan(start, p.current.PosEnd.Copy()), Elements: elements})
}

// ifExpr : KEYWORD:if expr ':' (statement ifExprBOrC? | NEWLINE statements (KEYWORD:stop | ifExprBOrC))
func (p *Parser) ifExpr() *parseResult {
	start := p.current.PosStart.Copy()
	cases, elseCase, sub := p.ifExprCases("if")
	if sub.err != nil {
		return sub
	}
	res := &parseResult{advanceCount: sub.advanceCount}
	return res.success(&If{span: newSpan(start, p.current.PosEnd.Copy()), Cases: cases, Else: elseCase})
}

// ifExprCases parses one `<caseKeyword> expr ':' body` arm and then any
// trailing elif/else chain.
func (p *Parser) ifExprCases(caseKeyword string) ([]IfCase, *ElseCase, *parseResult) {
	res := &parseResult{}
	var cases []IfCase
	var elseCase *ElseCase

	if !p.current.Matches(TokenKeyword, caseKeyword) {
		res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected '"+caseKeyword+"'"))
		return nil, nil, res
	}
	res.registerAdvancement()
	p.advance()

	cond := res.register(p.expr())
	if res.err != nil {
		return nil, nil, res
	}

	if !p.current.Matches(TokenKeyword, ":") {
		res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected ':'"))
		return nil, nil, res
	}
	res.registerAdvancement()
	p.advance()

	if p.current.Type == TokenNewline {
		res.registerAdvancement()
		p.advance()

		body := res.register(p.statements())
		if res.err != nil {
			return nil, nil, res
		}
		cases = append(cases, IfCase{Cond: cond, Body: body, BodyIsBlock: true})

		if p.current.Matches(TokenKeyword, "stop") {
			res.registerAdvancement()
			p.advance()
		} else {
			moreCases, tail, sub := p.ifExprBOrC()
			res.advanceCount += sub.advanceCount
			if sub.err != nil {
				res.err = sub.err
				return nil, nil, res
			}
			cases = append(cases, moreCases...)
			elseCase = tail
		}
	} else {
		stmt := res.register(p.statement())
		if res.err != nil {
			return nil, nil, res
		}
		cases = append(cases, IfCase{Cond: cond, Body: stmt, BodyIsBlock: false})

		moreCases, tail, sub := p.ifExprBOrC()
		res.advanceCount += sub.advanceCount
		if sub.err != nil {
			res.err = sub.err
			return nil, nil, res
		}
		cases = append(cases, moreCases...)
		elseCase = tail
	}

	return cases, elseCase, res
}

func (p *Parser) ifExprBOrC() ([]IfCase, *ElseCase, *parseResult) {
	if p.current.Matches(TokenKeyword, "elif") {
		return p.ifExprCases("elif")
	}
	elseCase, sub := p.ifExprC()
	return nil, elseCase, sub
}

// ifExprC parses an optional trailing `else` arm.
func (p *Parser) ifExprC() (*ElseCase, *parseResult) {
	res := &parseResult{}

	if !p.current.Matches(TokenKeyword, "else") {
		return nil, res
	}
	res.registerAdvancement()
	p.advance()

	if p.current.Matches(TokenKeyword, ":") {
		res.registerAdvancement()
		p.advance()
	}

	if p.current.Type == TokenNewline {
		res.registerAdvancement()
		p.advance()

		body := res.register(p.statements())
		if res.err != nil {
			return nil, res
		}
		if !p.current.Matches(TokenKeyword, "stop") {
			res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected 'stop'"))
			return nil, res
		}
		res.registerAdvancement()
		p.advance()
		return &ElseCase{Body: body, BodyIsBlock: true}, res
	}

	body := res.register(p.expr())
	if res.err != nil {
		return nil, res
	}
	return &ElseCase{Body: body, BodyIsBlock: false}, res
}

// forExpr : KEYWORD:for IDENTIFIER EQ expr KEYWORD:to expr (KEYWORD:step expr)? ':' body
func (p *Parser) forExpr() *parseResult {
	res := &parseResult{}
	start := p.current.PosStart.Copy()

	if !p.current.Matches(TokenKeyword, "for") {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected 'for'"))
	}
	res.registerAdvancement()
	p.advance()

	if p.current.Type != TokenIdentifier {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected identifier"))
	}
	varTok := p.current
	res.registerAdvancement()
	p.advance()

	if p.current.Type != TokenEQ {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected '='"))
	}
	res.registerAdvancement()
	p.advance()

	startVal := res.register(p.expr())
	if res.err != nil {
		return res
	}

	if !p.current.Matches(TokenKeyword, "to") {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected 'to'"))
	}
	res.registerAdvancement()
	p.advance()

	endVal := res.register(p.expr())
	if res.err != nil {
		return res
	}

	var stepVal Node
	if p.current.Matches(TokenKeyword, "step") {
		res.registerAdvancement()
		p.advance()
		stepVal = res.register(p.expr())
		if res.err != nil {
			return res
		}
	}

	if !p.current.Matches(TokenKeyword, ":") {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected ':'"))
	}
	res.registerAdvancement()
	p.advance()

	if p.current.Type == TokenNewline {
		res.registerAdvancement()
		p.advance()

		body := res.register(p.statements())
		if res.err != nil {
			return res
		}
		if !p.current.Matches(TokenKeyword, "stop") {
			return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected 'stop'"))
		}
		res.registerAdvancement()
		p.advance()

		return res.success(&For{span: newSpan(start, p.current.PosEnd.Copy()), VarTok: varTok,
			Start: startVal, End: endVal, Step: stepVal, Body: body, BodyIsBlock: true})
	}

	body := res.register(p.statement())
	if res.err != nil {
		return res
	}

	return res.success(&For{span: newSpan(start, p.current.PosEnd.Copy()), VarTok: varTok,
		Start: startVal, End: endVal, Step: stepVal, Body: body, BodyIsBlock: false})
}

// whileExpr : KEYWORD:while expr ':' body
func (p *Parser) whileExpr() *parseResult {
	res := &parseResult{}
	start := p.current.PosStart.Copy()

	if !p.current.Matches(TokenKeyword, "while") {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected 'while'"))
	}
	res.registerAdvancement()
	p.advance()

	cond := res.register(p.expr())
	if res.err != nil {
		return res
	}

	if !p.current.Matches(TokenKeyword, ":") {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected ':'"))
	}
	res.registerAdvancement()
	p.advance()

	if p.current.Type == TokenNewline {
		res.registerAdvancement()
		p.advance()

		body := res.register(p.statements())
		if res.err != nil {
			return res
		}
		if !p.current.Matches(TokenKeyword, "stop") {
			return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected 'stop'"))
		}
		res.registerAdvancement()
		p.advance()

		return res.success(&While{span: newSpan(start, p.current.PosEnd.Copy()), Cond: cond, Body: body, BodyIsBlock: true})
	}

	body := res.register(p.statement())
	if res.err != nil {
		return res
	}
	return res.success(&While{span: newSpan(start, p.current.PosEnd.Copy()), Cond: cond, Body: body, BodyIsBlock: false})
}

// funcDef : KEYWORD:def IDENTIFIER? LPAREN (IDENTIFIER (COMMA IDENTIFIER)*)? RPAREN (ARROW expr | NEWLINE statements KEYWORD:stop)
func (p *Parser) funcDef() *parseResult {
	res := &parseResult{}
	start := p.current.PosStart.Copy()

	if !p.current.Matches(TokenKeyword, "def") {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected 'def'"))
	}
	res.registerAdvancement()
	p.advance()

	var nameTok *Token
	if p.current.Type == TokenIdentifier {
		nameTok = p.current
		res.registerAdvancement()
		p.advance()
		if p.current.Type != TokenLParen {
			return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected '('"))
		}
	} else if p.current.Type != TokenLParen {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected identifier or '('"))
	}
	res.registerAdvancement()
	p.advance()

	var argNames []*Token
	if p.current.Type == TokenIdentifier {
		argNames = append(argNames, p.current)
		res.registerAdvancement()
		p.advance()

		for p.current.Type == TokenComma {
			res.registerAdvancement()
			p.advance()
			if p.current.Type != TokenIdentifier {
				return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected identifier"))
			}
			argNames = append(argNames, p.current)
			res.registerAdvancement()
			p.advance()
		}

		if p.current.Type != TokenRParen {
			return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected ',' or ')'"))
		}
	} else if p.current.Type != TokenRParen {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected identifier or ')'"))
	}
	res.registerAdvancement()
	p.advance()

	if p.current.Type == TokenArrow {
		res.registerAdvancement()
		p.advance()
		body := res.register(p.expr())
		if res.err != nil {
			return res
		}
		return res.success(&FuncDef{span: newSpan(start, p.current.PosEnd.Copy()), NameTok: nameTok,
			ArgNames: argNames, Body: body, AutoReturn: true})
	}

	if p.current.Type != TokenNewline {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected '->' or new line"))
	}
	res.registerAdvancement()
	p.advance()

	body := res.register(p.statements())
	if res.err != nil {
		return res
	}

	if !p.current.Matches(TokenKeyword, "stop") {
		return res.failure(NewError(SyntaxErrorKind, p.current.PosStart, p.current.PosEnd, "Expected 'stop'"))
	}
	res.registerAdvancement()
	p.advance()

	return res.success(&FuncDef{span: newSpan(start, p.current.PosEnd.Copy()), NameTok: nameTok,
		ArgNames: argNames, Body: body, AutoReturn: false})
}

// binOp folds a left-associative chain of `func_a OP func_a` into a
// left-leaning BinOp tree, except when rightFunc is given (used for `^`,
// whose right operand recurses through factor instead of call, which is
// what makes chained `^` right-associative overall).
func (p *Parser) binOp(leftFunc func() *parseResult, ops []opMatcher, rightFunc func() *parseResult) *parseResult {
	if rightFunc == nil {
		rightFunc = leftFunc
	}

	res := &parseResult{}
	left := res.register(leftFunc())
	if res.err != nil {
		return res
	}

	for p.matchesAny(ops) {
		opTok := p.current
		res.registerAdvancement()
		p.advance()

		right := res.register(rightFunc())
		if res.err != nil {
			return res
		}

		start, _ := left.Span()
		_, end := right.Span()
		left = &BinOp{span: newSpan(start, end), Left: left, OpTok: opTok, Right: right}
	}

	return res.success(left)
}
