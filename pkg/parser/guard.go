package parser

import (
	"github.com/arthur-debert/fpm/pkg/guard"
)

var guardKeywords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "if": true,
}

var guardLiterals = map[string]any{"true": true, "false": false, "nil": nil}

var compareOps = map[TokenKind]string{
	Eq: "==", NotEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
}

// expr := or
func (s *state) parseExpr() (guard.Expr, error) {
	return s.parseOr()
}

// or := and ( "or" and )*
func (s *state) parseOr() (guard.Expr, error) {
	left, err := s.parseAnd()
	if err != nil {
		return nil, err
	}
	for s.acceptKeyword("or") {
		right, err := s.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &guard.Logical{Op: "or", L: left, R: right}
	}
	return left, nil
}

// and := not ( "and" not )*
func (s *state) parseAnd() (guard.Expr, error) {
	left, err := s.parseNot()
	if err != nil {
		return nil, err
	}
	for s.acceptKeyword("and") {
		right, err := s.parseNot()
		if err != nil {
			return nil, err
		}
		left = &guard.Logical{Op: "and", L: left, R: right}
	}
	return left, nil
}

// not := "not" not | cmp
func (s *state) parseNot() (guard.Expr, error) {
	if s.acceptKeyword("not") {
		x, err := s.parseNot()
		if err != nil {
			return nil, err
		}
		return &guard.Not{X: x}, nil
	}
	return s.parseComparison()
}

// cmp := sum [ op sum ]
func (s *state) parseComparison() (guard.Expr, error) {
	left, err := s.parseSum()
	if err != nil {
		return nil, err
	}

	tok := s.peek()
	op, ok := compareOps[tok.Kind]
	switch {
	case ok:
		s.next()
	case tok.is(Ident, "in"):
		s.next()
		op = "in"
	case tok.is(Ident, "not") && s.toks[s.i+1].is(Ident, "in"):
		s.next()
		s.next()
		op = "not in"
	default:
		return left, nil
	}

	right, err := s.parseSum()
	if err != nil {
		return nil, err
	}
	return &guard.Binary{Op: op, L: left, R: right}, nil
}

// sum := term ( ("+"|"-") term )*
func (s *state) parseSum() (guard.Expr, error) {
	left, err := s.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := s.peek()
		if tok.Kind != Plus && tok.Kind != Minus {
			return left, nil
		}
		s.next()
		right, err := s.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &guard.Binary{Op: tok.Text, L: left, R: right}
	}
}

// term := unary ( ("*"|"/"|"%") unary )*
func (s *state) parseTerm() (guard.Expr, error) {
	left, err := s.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := s.peek()
		if tok.Kind != Star && tok.Kind != Slash && tok.Kind != Percent {
			return left, nil
		}
		s.next()
		right, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &guard.Binary{Op: tok.Text, L: left, R: right}
	}
}

// unary := "-" unary | postfix
func (s *state) parseUnary() (guard.Expr, error) {
	if s.accept(Minus) {
		x, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		return &guard.Neg{X: x}, nil
	}
	return s.parsePostfix()
}

// postfix := primary ( "." ident | "[" expr "]" | "(" args ")" )*
func (s *state) parsePostfix() (guard.Expr, error) {
	x, err := s.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case s.accept(Dot):
			name, err := s.expect(Ident)
			if err != nil {
				return nil, err
			}
			x = &guard.Attr{X: x, Name: name.Text}
		case s.accept(LBracket):
			idx, err := s.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := s.expect(RBracket); err != nil {
				return nil, err
			}
			x = &guard.Index{X: x, Index: idx}
		case s.accept(LParen):
			args, err := s.parseArgs(RParen)
			if err != nil {
				return nil, err
			}
			x = &guard.Call{Fn: x, Args: args}
		default:
			return x, nil
		}
	}
}

// primary := literal | ident | "(" expr ")" | "[" args "]"
func (s *state) parsePrimary() (guard.Expr, error) {
	tok := s.peek()
	switch tok.Kind {
	case Int, Float, String:
		s.next()
		return &guard.Literal{Value: tok.Value}, nil
	case Ident:
		if v, ok := guardLiterals[tok.Text]; ok {
			s.next()
			return &guard.Literal{Value: v}, nil
		}
		if guardKeywords[tok.Text] {
			return nil, s.unexpected(tok, "expected an expression")
		}
		s.next()
		return &guard.Name{Name: tok.Text}, nil
	case LParen:
		s.next()
		x, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := s.expect(RParen); err != nil {
			return nil, err
		}
		return x, nil
	case LBracket:
		s.next()
		elems, err := s.parseArgs(RBracket)
		if err != nil {
			return nil, err
		}
		return &guard.List{Elems: elems}, nil
	}
	return nil, s.unexpected(tok, "expected an expression")
}

// parseArgs reads comma separated expressions up to and including the
// closing token.
func (s *state) parseArgs(closing TokenKind) ([]guard.Expr, error) {
	var args []guard.Expr
	if s.accept(closing) {
		return args, nil
	}
	for {
		arg, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if s.accept(closing) {
			return args, nil
		}
		if _, err := s.expect(Comma); err != nil {
			return nil, err
		}
	}
}
