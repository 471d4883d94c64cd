// Package parser compiles the textual pattern language into pattern trees.
//
//	x:int if x > 1         typed variable with a guard
//	head :: tail           first element and the remaining slice
//	p@[_, _]               a pattern bound as a whole
//	[_, x:str] | []        alternatives
//	geo.Point(x, 0)        case pattern over a registered struct type
//	/^a+$/                 regular expression
//
// Type names, case constructors and guard identifiers resolve through a
// namespace.Namespace; Parse uses namespace.Builtins.
package parser

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/guard"
	"github.com/arthur-debert/fpm/pkg/logging"
	"github.com/arthur-debert/fpm/pkg/namespace"
	"github.com/arthur-debert/fpm/pkg/pattern"
)

// ParseError reports malformed pattern text. It carries ErrParse.
type ParseError struct {
	Msg     string
	Pos     int
	Snippet string
}

func (e *ParseError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("parse error at %d near %q: %s", e.Pos, e.Snippet, e.Msg)
}

// Code lets errors.IsErrorCode recognise parse errors.
func (e *ParseError) Code() errors.ErrorCode { return errors.ErrParse }

// Option configures a Parser.
type Option func(*Parser)

// WithRegexMode sets the mode of regex literals.
func WithRegexMode(mode pattern.RegexMode) Option {
	return func(p *Parser) { p.regexMode = mode }
}

// WithLogger replaces the "parser" component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) { p.logger = &logger }
}

// Parser turns pattern text into patterns. It is safe for concurrent use
// as long as its namespace is not redefined meanwhile.
type Parser struct {
	ns        *namespace.Namespace
	regexMode pattern.RegexMode
	logger    *zerolog.Logger
}

// New returns a parser resolving names through ns, or through the builtin
// namespace when ns is nil.
func New(ns *namespace.Namespace, opts ...Option) *Parser {
	if ns == nil {
		ns = namespace.Builtins()
	}
	p := &Parser{ns: ns}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses text with the builtin namespace.
func Parse(text string) (pattern.Pattern, error) {
	return New(nil).Parse(text)
}

// MustParse is Parse for patterns known to be valid; it panics otherwise.
func MustParse(text string) pattern.Pattern {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Namespace returns the namespace names resolve through.
func (p *Parser) Namespace() *namespace.Namespace {
	return p.ns
}

func (p *Parser) log() zerolog.Logger {
	if p.logger != nil {
		return *p.logger
	}
	return logging.GetLogger("parser")
}

// Parse compiles text into a pattern.
func (p *Parser) Parse(text string) (pattern.Pattern, error) {
	logger := p.log()
	s := &state{
		parser: p,
		text:   text,
		toks:   NewLexer(text).Tokenize(),
	}

	result, err := s.parseGuarded()
	if err != nil {
		logger.Debug().Err(err).Str("expr", text).Msg("Pattern rejected")
		return nil, err
	}
	logger.Trace().Str("expr", text).Str("pattern", result.String()).Msg("Pattern parsed")
	return result, nil
}

// state is the cursor over the tokens of one Parse call.
type state struct {
	parser *Parser
	text   string
	toks   []Token
	i      int
}

func (s *state) peek() Token {
	return s.toks[s.i]
}

func (s *state) next() Token {
	tok := s.toks[s.i]
	if s.i < len(s.toks)-1 {
		s.i++
	}
	return tok
}

func (s *state) accept(kind TokenKind) bool {
	if s.peek().Kind == kind {
		s.next()
		return true
	}
	return false
}

func (s *state) acceptKeyword(word string) bool {
	if s.peek().is(Ident, word) {
		s.next()
		return true
	}
	return false
}

func (s *state) expect(kind TokenKind) (Token, error) {
	tok := s.peek()
	if tok.Kind != kind {
		return tok, s.unexpected(tok, "expected "+kind.String())
	}
	return s.next(), nil
}

func (s *state) errorAt(pos int, format string, args ...any) *ParseError {
	end := min(len(s.text), pos+16)
	return &ParseError{Msg: fmt.Sprintf(format, args...), Pos: pos, Snippet: s.text[pos:end]}
}

func (s *state) unexpected(tok Token, context string) *ParseError {
	if tok.Kind == Illegal {
		return s.errorAt(tok.Pos, "%s", tok.Value)
	}
	return s.errorAt(tok.Pos, "unexpected %s, %s", tok, context)
}

// guarded := pattern [ "if" expr ] EOF
func (s *state) parseGuarded() (pattern.Pattern, error) {
	pat, err := s.parsePattern()
	if err != nil {
		return nil, err
	}
	if s.acceptKeyword("if") {
		expr, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		pat = pattern.Guard(pat, guard.New(expr, s.parser.ns))
	}
	if tok := s.peek(); tok.Kind != EOF {
		return nil, s.unexpected(tok, "expected end of pattern")
	}
	return pat, nil
}

// pattern := cons ( "|" cons )*
func (s *state) parsePattern() (pattern.Pattern, error) {
	left, err := s.parseCons()
	if err != nil {
		return nil, err
	}
	for s.accept(Pipe) {
		right, err := s.parseCons()
		if err != nil {
			return nil, err
		}
		left = pattern.OrElse(left, right)
	}
	return left, nil
}

// cons := atom [ "::" cons ]
func (s *state) parseCons() (pattern.Pattern, error) {
	head, err := s.parseAtom()
	if err != nil {
		return nil, err
	}
	if !s.accept(ConsOp) {
		return head, nil
	}
	tail, err := s.parseCons()
	if err != nil {
		return nil, err
	}
	return pattern.Cons(head, tail), nil
}

func (s *state) parseAtom() (pattern.Pattern, error) {
	tok := s.peek()
	switch tok.Kind {
	case Int, Float, String:
		s.next()
		return &pattern.Equals{Value: tok.Value}, nil
	case Regex:
		s.next()
		re, err := regexp.Compile(tok.Value.(string))
		if err != nil {
			return nil, s.errorAt(tok.Pos, "invalid regex: %v", err)
		}
		return pattern.NewRegex(re, s.parser.regexMode), nil
	case LBracket:
		return s.parseList()
	case LParen:
		s.next()
		inner, err := s.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := s.expect(RParen); err != nil {
			return nil, err
		}
		return inner, nil
	case Ident:
		return s.parseName()
	}
	return nil, s.unexpected(tok, "expected a pattern")
}

var patternKeywords = map[string]any{"true": true, "false": false, "nil": nil}

func (s *state) parseName() (pattern.Pattern, error) {
	tok := s.next()
	if v, ok := patternKeywords[tok.Text]; ok {
		return &pattern.Equals{Value: v}, nil
	}
	if tok.Text == "if" {
		return nil, s.errorAt(tok.Pos, "missing pattern before 'if'")
	}

	// a dotted path can only be a case constructor
	if s.peek().Kind == Dot || s.peek().Kind == LParen {
		path := tok.Text
		for s.accept(Dot) {
			seg, err := s.expect(Ident)
			if err != nil {
				return nil, err
			}
			path += "." + seg.Text
		}
		return s.parseCaseCall(tok.Pos, path)
	}

	name := tok.Text
	if name != "_" {
		if _, isType := s.parser.ns.LookupType(name); isType {
			return nil, s.errorAt(tok.Pos, "%q names a type and cannot be used as a variable", name)
		}
	}

	var pat pattern.Pattern = &pattern.Any{}
	switch {
	case s.accept(At):
		// name@atom
		at := s.peek().Pos
		body, err := s.parseAtom()
		if err != nil {
			return nil, err
		}
		if body.BoundName() != "" {
			return nil, s.errorAt(at, "pattern after %s@ is already bound to %q", name, body.BoundName())
		}
		pat = body
	case s.accept(Colon):
		t, path, err := s.parseTypePath()
		if err != nil {
			return nil, err
		}
		pat = &pattern.InstanceOf{Type: t, TypeName: path}
	}
	if name == "_" {
		return pat, nil
	}
	return pattern.Bind(pat, name), nil
}

func (s *state) parseTypePath() (reflect.Type, string, error) {
	first, err := s.expect(Ident)
	if err != nil {
		return nil, "", err
	}
	path := first.Text
	for s.accept(Dot) {
		seg, err := s.expect(Ident)
		if err != nil {
			return nil, "", err
		}
		path += "." + seg.Text
	}
	t, err := s.resolveType(first.Pos, path)
	return t, path, err
}

func (s *state) resolveType(pos int, path string) (reflect.Type, error) {
	v, ok := s.parser.ns.Lookup(path)
	if !ok {
		return nil, s.errorAt(pos, "unknown type %q", path)
	}
	t, ok := v.(reflect.Type)
	if !ok {
		return nil, s.errorAt(pos, "%q is not a type", path)
	}
	return t, nil
}

// case call := typepath "(" [ pattern ( "," pattern )* ] ")"
func (s *state) parseCaseCall(pos int, path string) (pattern.Pattern, error) {
	t, err := s.resolveType(pos, path)
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(LParen); err != nil {
		return nil, err
	}
	args, err := s.parseSequence(RParen)
	if err != nil {
		return nil, err
	}
	return &pattern.Case{Type: t, TypeName: path, Args: &pattern.List{Elems: args}}, nil
}

// list := "[" [ pattern ( "," pattern )* ] "]"
func (s *state) parseList() (pattern.Pattern, error) {
	s.next()
	elems, err := s.parseSequence(RBracket)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return pattern.Build([]any{}), nil
	}
	return &pattern.List{Elems: elems}, nil
}

// parseSequence reads comma separated patterns up to and including the
// closing token.
func (s *state) parseSequence(closing TokenKind) ([]pattern.Pattern, error) {
	var elems []pattern.Pattern
	if s.accept(closing) {
		return elems, nil
	}
	for {
		elem, err := s.parsePattern()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if s.accept(closing) {
			return elems, nil
		}
		if _, err := s.expect(Comma); err != nil {
			return nil, err
		}
	}
}
