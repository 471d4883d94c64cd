package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	EOF TokenKind = iota
	Illegal
	Ident
	Int
	Float
	String
	Regex

	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	Comma    // ,
	Colon    // :
	ConsOp   // ::
	Pipe     // |
	Dot      // .
	At       // @

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %
	Eq      // ==
	NotEq   // !=
	Lt      // <
	LtEq    // <=
	Gt      // >
	GtEq    // >=
)

var kindNames = map[TokenKind]string{
	EOF: "end of input", Illegal: "illegal token", Ident: "identifier",
	Int: "integer", Float: "float", String: "string", Regex: "regex",
	LParen: "'('", RParen: "')'", LBracket: "'['", RBracket: "']'",
	Comma: "','", Colon: "':'", ConsOp: "'::'", Pipe: "'|'", Dot: "'.'", At: "'@'",
	Plus: "'+'", Minus: "'-'", Star: "'*'", Slash: "'/'", Percent: "'%'",
	Eq: "'=='", NotEq: "'!='", Lt: "'<'", LtEq: "'<='", Gt: "'>'", GtEq: "'>='",
}

func (k TokenKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Token is a lexeme with its decoded value and byte offset.
type Token struct {
	Kind  TokenKind
	Text  string
	Value any
	Pos   int
}

func (t Token) String() string {
	if t.Kind == EOF {
		return t.Kind.String()
	}
	return fmt.Sprintf("%q", t.Text)
}

func (t Token) is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// Lexer splits pattern expressions into tokens. Pattern text and guard
// text lex differently: "/" opens a regex literal and a minus sign glued to
// a number is part of the literal before the "if" keyword, while in a guard
// both are operators.
type Lexer struct {
	input        string
	position     int  // start of the current char
	readPosition int  // start of the next char
	ch           rune // current char, 0 at end of input
	guard        bool
}

// NewLexer returns a lexer positioned on the first char of input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	l.position = l.readPosition
	if l.readPosition >= len(l.input) {
		l.ch = 0
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.readPosition += w
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// Tokenize lexes the whole input. The last token is always EOF or Illegal.
func (l *Lexer) Tokenize() []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == EOF || tok.Kind == Illegal {
			return toks
		}
	}
}

// NextToken returns the next token of the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	start := l.position

	simple := func(kind TokenKind, width int) Token {
		for i := 0; i < width; i++ {
			l.readChar()
		}
		return Token{Kind: kind, Text: l.input[start:l.position], Pos: start}
	}

	switch ch := l.ch; {
	case ch == 0 && l.position >= len(l.input):
		return Token{Kind: EOF, Pos: start}
	case ch == '(':
		return simple(LParen, 1)
	case ch == ')':
		return simple(RParen, 1)
	case ch == '[':
		return simple(LBracket, 1)
	case ch == ']':
		return simple(RBracket, 1)
	case ch == ',':
		return simple(Comma, 1)
	case ch == '|':
		return simple(Pipe, 1)
	case ch == '@' && !l.guard:
		return simple(At, 1)
	case ch == ':':
		if l.peekChar() == ':' {
			return simple(ConsOp, 2)
		}
		return simple(Colon, 1)
	case ch == '"' || ch == '\'':
		return l.readString()
	case isDigit(ch) || ch == '.' && isDigit(l.peekChar()):
		return l.readNumber(start)
	case ch == '-' && !l.guard && (isDigit(l.peekChar()) || l.peekChar() == '.'):
		l.readChar()
		return l.readNumber(start)
	case ch == '.':
		return simple(Dot, 1)
	case ch == '/' && !l.guard:
		return l.readRegex()
	case isLetter(ch):
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		tok := Token{Kind: Ident, Text: l.input[start:l.position], Pos: start}
		if tok.Text == "if" {
			l.guard = true
		}
		return tok
	}

	if l.guard {
		switch l.ch {
		case '+':
			return simple(Plus, 1)
		case '-':
			return simple(Minus, 1)
		case '*':
			return simple(Star, 1)
		case '/':
			return simple(Slash, 1)
		case '%':
			return simple(Percent, 1)
		case '=':
			if l.peekChar() == '=' {
				return simple(Eq, 2)
			}
		case '!':
			if l.peekChar() == '=' {
				return simple(NotEq, 2)
			}
		case '<':
			if l.peekChar() == '=' {
				return simple(LtEq, 2)
			}
			return simple(Lt, 1)
		case '>':
			if l.peekChar() == '=' {
				return simple(GtEq, 2)
			}
			return simple(Gt, 1)
		}
	}
	return l.illegal(start, fmt.Sprintf("unexpected character %q", l.ch))
}

func (l *Lexer) illegal(start int, msg string) Token {
	return Token{Kind: Illegal, Text: l.input[start:min(len(l.input), max(l.position, start+1))], Value: msg, Pos: start}
}

// readNumber lexes digits [ "." digits ] or "." digits, the sign (if any)
// already consumed. Literals glued to letters are rejected.
func (l *Lexer) readNumber(start int) Token {
	isFloat := false
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	text := l.input[start:l.position]
	if isLetter(l.ch) || l.ch == '.' {
		for isLetter(l.ch) || isDigit(l.ch) || l.ch == '.' {
			l.readChar()
		}
		return l.illegal(start, fmt.Sprintf("malformed number %q", l.input[start:l.position]))
	}
	if text == "-" || text == "-." || text == "." {
		return l.illegal(start, fmt.Sprintf("malformed number %q", text))
	}

	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.illegal(start, fmt.Sprintf("malformed float %q", text))
		}
		return Token{Kind: Float, Text: text, Value: f, Pos: start}
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return l.illegal(start, fmt.Sprintf("malformed integer %q", text))
	}
	return Token{Kind: Int, Text: text, Value: n, Pos: start}
}

func (l *Lexer) readString() Token {
	start := l.position
	quote := l.ch
	l.readChar()

	var sb strings.Builder
	for l.ch != quote {
		if l.ch == 0 && l.position >= len(l.input) {
			return l.illegal(start, "unterminated string")
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case 0:
				return l.illegal(start, "unterminated string")
			default:
				sb.WriteRune(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar()
	return Token{Kind: String, Text: l.input[start:l.position], Value: sb.String(), Pos: start}
}

// readRegex lexes /.../; \/ stands for a slash, every other escape is
// handed to the regexp compiler untouched.
func (l *Lexer) readRegex() Token {
	start := l.position
	l.readChar()

	var sb strings.Builder
	for l.ch != '/' {
		if l.ch == 0 && l.position >= len(l.input) {
			return l.illegal(start, "unterminated regex")
		}
		if l.ch == '\\' {
			next := l.peekChar()
			switch next {
			case '/':
				sb.WriteRune('/')
				l.readChar()
				l.readChar()
				continue
			case 0:
				return l.illegal(start, "unterminated regex")
			}
			sb.WriteRune('\\')
			sb.WriteRune(next)
			l.readChar()
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar()
	return Token{Kind: Regex, Text: l.input[start:l.position], Value: sb.String(), Pos: start}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
