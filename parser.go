// parser.go
//
// Recursive-descent FEEL parser. Precedence, lowest to highest:
//
//	conditional  if a then b else c
//	or / and
//	comparison   < > <= >= = !=      (non-associative)
//	additive     + -
//	multiplicative * /
//	exponent     **                  (right-associative)
//	primary      literals, variables, calls, property chains, (e), [e, ...], -e
//
// Parse fails unless the whole token stream is consumed, so trailing junk
// after a valid expression is a ParseError rather than silently ignored.
package feel

import (
	"strconv"
)

type parser struct {
	toks []Token
	i    int
}

// Parse builds the AST for a token stream produced by Tokenize.
func Parse(toks []Token) (Node, error) {
	p := &parser{toks: toks}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		t := p.peek()
		return nil, &ParseError{Line: t.Line, Col: t.Col, Msg: "unexpected token '" + t.Text + "' after expression"}
	}
	return node, nil
}

// ParseExpression tokenizes and parses in one step.
func ParseExpression(src string) (Node, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

func (p *parser) atEnd() bool { return p.peek().Kind == TkEOF }

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) peekAt(off int) Token {
	if p.i+off >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+off]
}

func (p *parser) advance() Token {
	t := p.toks[p.i]
	if t.Kind != TkEOF {
		p.i++
	}
	return t
}

// match consumes the next token if it has the given kind and text.
func (p *parser) match(kind TokenKind, text string) bool {
	t := p.peek()
	if t.Kind != kind || (text != "" && t.Text != text) {
		return false
	}
	p.advance()
	return true
}

// need consumes the next token or fails with a positioned error.
func (p *parser) need(kind TokenKind, text, what string) (Token, error) {
	t := p.peek()
	if t.Kind != kind || (text != "" && t.Text != text) {
		return Token{}, p.errHere("expected " + what)
	}
	return p.advance(), nil
}

func (p *parser) errHere(msg string) error {
	t := p.peek()
	got := t.Text
	if t.Kind == TkEOF {
		got = "end of input"
	} else {
		got = "'" + got + "'"
	}
	return &ParseError{Line: t.Line, Col: t.Col, Msg: msg + ", got " + got}
}

func (p *parser) parseExpr() (Node, error) { return p.parseConditional() }

func (p *parser) parseConditional() (Node, error) {
	if !p.match(TkKeyword, "if") {
		return p.parseOr()
	}
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(TkKeyword, "then", "'then'"); err != nil {
		return nil, err
	}
	thenN, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(TkKeyword, "else", "'else'"); err != nil {
		return nil, err
	}
	elseN, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return &IfNode{Cond: cond, Then: thenN, Else: elseN}, nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(TkKeyword, "or") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: "or", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.match(TkKeyword, "and") {
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: "and", Left: left, Right: right}
	}
	return left, nil
}

func isComparisonOp(t Token) bool {
	if t.Kind != TkOperator {
		return false
	}
	switch t.Text {
	case "<", ">", "<=", ">=", "=", "!=":
		return true
	}
	return false
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if !isComparisonOp(p.peek()) {
		return left, nil
	}
	op := p.advance().Text
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &BinaryNode{Op: op, Left: left, Right: right}, nil
}

func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TkOperator && (p.peek().Text == "+" || p.peek().Text == "-") {
		op := p.advance().Text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TkOperator && (p.peek().Text == "*" || p.peek().Text == "/") {
		op := p.advance().Text
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseExponent() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.match(TkOperator, "**") {
		exp, err := p.parseExponent() // right-associative
		if err != nil {
			return nil, err
		}
		return &BinaryNode{Op: "**", Left: base, Right: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.peek()
	switch t.Kind {
	case TkNumber:
		p.advance()
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return nil, &ParseError{Line: t.Line, Col: t.Col, Msg: "invalid number literal '" + t.Text + "'"}
		}
		return &NumberNode{Value: f}, nil

	case TkString:
		p.advance()
		return &StringNode{Value: t.Text}, nil

	case TkKeyword:
		switch t.Text {
		case "true", "false":
			p.advance()
			return &BoolNode{Value: t.Text == "true"}, nil
		case "null":
			p.advance()
			return &NullNode{}, nil
		case "not":
			// not(...) is an ordinary function call.
			if p.peekAt(1).Kind == TkLParen {
				p.advance()
				return p.parseCall("not")
			}
		}
		return nil, p.errHere("unexpected keyword '" + t.Text + "'")

	case TkIdent:
		p.advance()
		if p.peek().Kind == TkLParen {
			return p.parseCall(t.Text)
		}
		return p.parsePostfix(&VarNode{Name: t.Text})

	case TkLParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(TkRParen, "", "')'"); err != nil {
			return nil, err
		}
		return p.parsePostfix(inner)

	case TkLBracket:
		return p.parseList()

	case TkOperator:
		if t.Text == "-" {
			p.advance()
			operand, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			return &UnaryNode{Op: "-", Operand: operand}, nil
		}
	}
	return nil, p.errHere("expected expression")
}

// parsePostfix consumes a left-associative property chain after a primary.
func (p *parser) parsePostfix(node Node) (Node, error) {
	for p.peek().Kind == TkDot {
		p.advance()
		t := p.peek()
		if t.Kind != TkIdent && t.Kind != TkKeyword {
			return nil, p.errHere("expected property name after '.'")
		}
		p.advance()
		node = &PropertyNode{Object: node, Property: t.Text}
	}
	return node, nil
}

func (p *parser) parseList() (Node, error) {
	p.advance() // '['
	var items []Node
	for p.peek().Kind != TkRBracket {
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.match(TkComma, "") {
			break
		}
		// trailing comma before ']' is tolerated
	}
	if _, err := p.need(TkRBracket, "", "']'"); err != nil {
		return nil, err
	}
	return &ListNode{Items: items}, nil
}

// parseCall parses "(...)" after a function name, detecting named
// parameters (name: value) and refusing a mix of named and positional.
func (p *parser) parseCall(name string) (Node, error) {
	p.advance() // '('
	var params []Param
	named, positional := false, false
	for p.peek().Kind != TkRParen {
		var param Param
		if (p.peek().Kind == TkIdent || p.peek().Kind == TkKeyword) && p.peekAt(1).Kind == TkColon {
			param.Name = p.advance().Text
			p.advance() // ':'
			named = true
		} else {
			positional = true
		}
		val, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		param.Value = val
		params = append(params, param)
		if !p.match(TkComma, "") {
			break
		}
	}
	if named && positional {
		return nil, p.errHere("cannot mix named and positional parameters in call to '" + name + "'")
	}
	if _, err := p.need(TkRParen, "", "')'"); err != nil {
		return nil, err
	}
	return p.parsePostfix(&CallNode{Name: name, Params: params})
}
