package formula

import "strconv"

// Parse tokenizes and parses src into an expression tree.
//
// Grammar, loosest to tightest binding:
//
//	expr   = term   { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = ("+" | "-") factor | power
//	power  = primary [ "^" factor ]
//	primary = number | identifier | "(" expr ")"
//
// Power is right-associative and binds tighter than unary minus, so
// "-2^2" is -(2^2) and "2^3^2" is 2^(3^2), matching conventional
// mathematical notation.
func Parse(src string) (*Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{src: src, toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &SyntaxError{Expr: src, Pos: tok.pos, Msg: "unexpected token " + strconv.Quote(tok.text)}
	}
	return &Expr{root: root, source: src}, nil
}

// MustParse is a test and fixture helper; it panics on malformed input.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseExpr() (node, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokPlus && tok.kind != tokMinus {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = binaryNode{op: tok.kind, lhs: lhs, rhs: rhs}
	}
}

func (p *parser) parseTerm() (node, error) {
	lhs, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokStar && tok.kind != tokSlash {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		lhs = binaryNode{op: tok.kind, lhs: lhs, rhs: rhs}
	}
}

func (p *parser) parseFactor() (node, error) {
	tok := p.peek()
	if tok.kind == tokPlus || tok.kind == tokMinus {
		p.next()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokPlus {
			return operand, nil
		}
		return unaryNode{negate: true, operand: operand}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokCaret {
		return base, nil
	}
	p.next()
	// Right-associative: the exponent re-enters at factor level so unary
	// minus and chained powers nest correctly (2^-3, 2^3^2).
	exp, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return binaryNode{op: tokCaret, lhs: base, rhs: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, &SyntaxError{Expr: p.src, Pos: tok.pos, Msg: "malformed number " + strconv.Quote(tok.text)}
		}
		return literalNode{value: v}, nil
	case tokIdent:
		return identNode{name: tok.text}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &SyntaxError{Expr: p.src, Pos: closing.pos, Msg: "missing closing parenthesis"}
		}
		return inner, nil
	case tokEOF:
		return nil, &SyntaxError{Expr: p.src, Pos: tok.pos, Msg: "unexpected end of expression"}
	default:
		return nil, &SyntaxError{Expr: p.src, Pos: tok.pos, Msg: "unexpected token " + strconv.Quote(tok.text)}
	}
}
