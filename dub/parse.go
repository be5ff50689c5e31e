package dub

import (
	"fmt"
	"strconv"
)

// Node is a command argument: Identifier, Int, Float, String or MatchExpr.
type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Int) isNode()        {}
func (Float) isNode()      {}
func (String) isNode()     {}
func (MatchExpr) isNode()  {}

// Command is one parsed line: a name followed by its arguments.
type Command struct {
	Name Identifier
	Args []Node
}

type Identifier string
type Int int
type Float float64
type String string

// MatchExpr selects steps of a bar, e.g. '1,3 or '*/2. Evaluate it with
// EvalMatchExpr or MatchSteps.
type MatchExpr struct {
	matchers []matchItem
}

func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	p := parser{tokens: tokens}
	return p.command()
}

// parser walks the token slice, which always ends in typeEOF.
type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != typeEOF {
		p.pos++
	}
	return t
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) command() (Command, error) {
	var cmd Command
	name := p.next()
	if name.typ != typeIdentifier {
		return cmd, unexpected(name)
	}
	cmd.Name = Identifier(name.text)
	for p.peek().typ != typeEOF {
		arg, err := p.arg()
		if err != nil {
			return cmd, err
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

func (p *parser) arg() (Node, error) {
	t := p.next()
	switch t.typ {
	case typeIdentifier:
		return Identifier(t.text), nil
	case typeString:
		return String(t.text[1 : len(t.text)-1]), nil
	case typeInt:
		n, err := atoi(t)
		return Int(n), err
	case typeFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q at position %d", t.text, t.pos)
		}
		return Float(f), nil
	case typeQuote:
		return p.matchExpr()
	}
	return nil, unexpected(t)
}

// matchExpr reads selectors separated by runs of slashes. Each slash moves
// the following selector one division level finer.
func (p *parser) matchExpr() (MatchExpr, error) {
	var expr MatchExpr
	level := 0
	for {
		m, err := p.selector()
		if err != nil {
			return expr, err
		}
		expr.matchers = append(expr.matchers, matchItem{level: level, matcher: m})
		if p.peek().typ != typeSlash {
			return expr, nil
		}
		for p.peek().typ == typeSlash {
			p.next()
			level++
		}
	}
}

func (p *parser) selector() (matcher, error) {
	t := p.next()
	switch t.typ {
	case typeAsterisk:
		return matchAll, nil
	case typeInt:
		if p.peek().typ == typeColon {
			p.next()
			return p.rangeSelector(t)
		}
		return p.listSelector(t)
	}
	return nil, unexpected(t)
}

func (p *parser) rangeSelector(from token) (matcher, error) {
	start, err := atoi(from)
	if err != nil {
		return nil, err
	}
	to := p.next()
	if to.typ != typeInt {
		return nil, unexpected(to)
	}
	end, err := atoi(to)
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, fmt.Errorf("empty range %d:%d at position %d", start, end, from.pos)
	}
	return rangeMatch{start: start, end: end}, nil
}

func (p *parser) listSelector(first token) (matcher, error) {
	n, err := atoi(first)
	if err != nil {
		return nil, err
	}
	list := listMatch{n}
	for p.peek().typ == typeComma {
		p.next()
		t := p.next()
		if t.typ != typeInt {
			return nil, unexpected(t)
		}
		if n, err = atoi(t); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, nil
}

func atoi(t token) (int, error) {
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, fmt.Errorf("bad number %q at position %d", t.text, t.pos)
	}
	return n, nil
}

func unexpected(t token) error {
	if t.typ == typeEOF {
		return fmt.Errorf("unexpected end of input at position %d", t.pos)
	}
	return fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
}
