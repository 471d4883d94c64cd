package pattern

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Pattern is an immutable descriptor of an acceptable value shape.
type Pattern interface {
	// BoundName is the name the matched value is captured under, or "".
	BoundName() string
	// Length is how many sequence elements the pattern consumes inside a
	// List: 1 for everything but Range.
	Length() Length
	String() string

	rename(name string) Pattern
}

// Length is the number of elements a pattern consumes in a List.
type Length int

const (
	// Unset marks a Range whose length was never given.
	Unset Length = -2
	// Infinite consumes whatever remains of the sequence.
	Infinite Length = -1
)

func (l Length) String() string {
	switch l {
	case Unset:
		return "unset"
	case Infinite:
		return "infinite"
	default:
		return strconv.Itoa(int(l))
	}
}

// Named carries the optional bound name shared by every variant.
type Named struct {
	Name string
}

func (n Named) BoundName() string { return n.Name }

// Any matches every value.
type Any struct {
	Named
}

func (*Any) Length() Length { return 1 }

func (p *Any) rename(name string) Pattern {
	c := *p
	c.Name = name
	return &c
}

func (p *Any) String() string {
	if p.Name == "" {
		return "_"
	}
	return p.Name
}

// Equals matches values equal to Value, see ValuesEqual.
type Equals struct {
	Named
	Value any
}

func (*Equals) Length() Length { return 1 }

func (p *Equals) rename(name string) Pattern {
	c := *p
	c.Name = name
	return &c
}

func (p *Equals) String() string {
	return withName(p.Name, formatLiteral(p.Value))
}

// InstanceOf matches values whose dynamic type is Type. When Type is an
// interface type, any implementation matches, nil included.
//
// TypeName is the spelling the type was written with, kept for String.
type InstanceOf struct {
	Named
	Type     reflect.Type
	TypeName string
}

func (*InstanceOf) Length() Length { return 1 }

func (p *InstanceOf) rename(name string) Pattern {
	c := *p
	c.Name = name
	return &c
}

func (p *InstanceOf) String() string {
	name := p.Name
	if name == "" {
		name = "_"
	}
	return name + ":" + typeLabel(p.TypeName, p.Type)
}

// RegexMode selects how a Regex pattern tests its subject.
type RegexMode int

const (
	// FullMatch requires the expression to cover the whole string.
	FullMatch RegexMode = iota
	// Search accepts a match anywhere in the string.
	Search
)

func (m RegexMode) String() string {
	if m == Search {
		return "search"
	}
	return "full"
}

// ParseRegexMode converts a configuration value into a RegexMode.
func ParseRegexMode(s string) (RegexMode, error) {
	switch strings.ToLower(s) {
	case "", "full", "fullmatch":
		return FullMatch, nil
	case "search":
		return Search, nil
	default:
		return FullMatch, fmt.Errorf("unknown regex mode: %s", s)
	}
}

// Regex matches strings against a regular expression.
type Regex struct {
	Named
	Re   *regexp.Regexp
	Mode RegexMode

	anchored *regexp.Regexp
}

// NewRegex builds a Regex pattern, precompiling the anchored form used by
// FullMatch.
func NewRegex(re *regexp.Regexp, mode RegexMode) *Regex {
	return &Regex{Re: re, Mode: mode, anchored: anchor(re)}
}

func anchor(re *regexp.Regexp) *regexp.Regexp {
	if re == nil {
		return nil
	}
	return regexp.MustCompile(`\A(?:` + re.String() + `)\z`)
}

func (*Regex) Length() Length { return 1 }

func (p *Regex) rename(name string) Pattern {
	c := *p
	c.Name = name
	return &c
}

func (p *Regex) String() string {
	src := ""
	if p.Re != nil {
		src = strings.ReplaceAll(p.Re.String(), "/", `\/`)
	}
	return withName(p.Name, "/"+src+"/")
}

func (p *Regex) matches(v any) bool {
	s, ok := v.(string)
	if !ok || p.Re == nil {
		return false
	}
	if p.Mode == Search {
		return p.Re.MatchString(s)
	}
	full := p.anchored
	if full == nil {
		full = anchor(p.Re)
	}
	return full.MatchString(s)
}

// Range applies Inner to every element of a sequence. A fixed Len requires
// exactly that many elements; Infinite takes the remaining tail of a List.
//
// The zero Range has length 0 and matches only empty sequences; NewRange
// yields a Range whose length is still Unset. Inner must not be bound: a
// binding belongs to the whole consumed slice, set it on the Range itself.
type Range struct {
	Named
	Inner Pattern
	Len   Length
}

// NewRange returns a Range over inner with an unset length.
func NewRange(inner Pattern) *Range {
	return &Range{Inner: inner, Len: Unset}
}

func (p *Range) Length() Length { return p.Len }

func (p *Range) rename(name string) Pattern {
	c := *p
	c.Name = name
	return &c
}

func (p *Range) inner() Pattern {
	if p.Inner == nil {
		return &Any{}
	}
	return p.Inner
}

func (p *Range) String() string {
	in := p.inner()
	if a, ok := in.(*Any); ok && a.Name == "" && p.Len == Infinite && p.Name != "" {
		return p.Name + "..."
	}
	var body string
	switch p.Len {
	case 0:
		body = "[]"
	case Infinite:
		body = operand(in) + "..."
	default:
		body = operand(in) + "*" + p.Len.String()
	}
	return withName(p.Name, body)
}

// List matches a sequence element by element, each sub-pattern consuming
// Length() elements. The sequence must be consumed exactly.
//
// Sub-patterns placed after an Infinite one always see an empty remainder.
type List struct {
	Named
	Elems []Pattern
}

func (*List) Length() Length { return 1 }

func (p *List) rename(name string) Pattern {
	c := *p
	c.Name = name
	return &c
}

// String renders lists built by Cons as "head :: tail", the rest as
// "[a, b]".
func (p *List) String() string {
	if p.consForm() {
		return named(p.Name, p.renderCons(), false)
	}
	return withName(p.Name, "["+joinPatterns(p.Elems)+"]")
}

// Rest applies Pattern to the whole remainder of a sequence inside a List.
// Cons wraps tails that are neither variables nor lists in a Rest, so that
// h :: t:list binds t to the elements after h.
type Rest struct {
	Named
	Pattern Pattern
}

func (*Rest) Length() Length { return Infinite }

func (p *Rest) rename(name string) Pattern {
	c := *p
	c.Name = name
	return &c
}

func (p *Rest) inner() Pattern {
	if p.Pattern == nil {
		return &Any{}
	}
	return p.Pattern
}

func (p *Rest) String() string {
	return named(p.Name, operand(p.inner()), true)
}

// Case matches values of Type whose case arguments match Args.
// See package caseclass for how arguments are obtained.
type Case struct {
	Named
	Type     reflect.Type
	TypeName string
	Args     *List
}

func (*Case) Length() Length { return 1 }

func (p *Case) rename(name string) Pattern {
	c := *p
	c.Name = name
	return &c
}

func (p *Case) args() *List {
	if p.Args == nil {
		return &List{}
	}
	return p.Args
}

func (p *Case) String() string {
	return withName(p.Name, typeLabel(p.TypeName, p.Type)+"("+joinPatterns(p.args().Elems)+")")
}

// Or matches Left, falling back to Right when Left does not match.
type Or struct {
	Named
	Left, Right Pattern
}

func (*Or) Length() Length { return 1 }

func (p *Or) rename(name string) Pattern {
	c := *p
	c.Name = name
	return &c
}

// String keeps "|" left associative: a right operand that is itself an Or
// is parenthesized.
func (p *Or) String() string {
	left := p.Left.String()
	if _, ok := p.Left.(*Guarded); ok && p.Left.BoundName() == "" {
		left = "(" + left + ")"
	}
	right := p.Right.String()
	switch p.Right.(type) {
	case *Or, *Guarded:
		if p.Right.BoundName() == "" {
			right = "(" + right + ")"
		}
	}
	return named(p.Name, left+" | "+right, false)
}

// Condition is a boolean test evaluated against the bindings of a match.
type Condition interface {
	Holds(bs Bindings) (bool, error)
	String() string
}

// Guarded matches when Pattern matches and Guard holds on the resulting
// bindings.
type Guarded struct {
	Named
	Pattern Pattern
	Guard   Condition
}

func (p *Guarded) Length() Length { return p.Pattern.Length() }

func (p *Guarded) rename(name string) Pattern {
	c := *p
	c.Name = name
	return &c
}

func (p *Guarded) String() string {
	s := p.Pattern.String()
	if p.Guard != nil {
		s += " if " + p.Guard.String()
	}
	return named(p.Name, s, false)
}
