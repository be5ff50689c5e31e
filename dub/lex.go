package dub

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	typeUnknown tokenType = iota
	typeInt
	typeFloat
	typeIdentifier
	typeString
	typeQuote
	typeComma
	typeColon
	typeSlash
	typeAsterisk
	typeSemicolon
	typeEOF
)

const eof = -1

var punctuation = map[rune]tokenType{
	'\'': typeQuote,
	',':  typeComma,
	':':  typeColon,
	'/':  typeSlash,
	'*':  typeAsterisk,
	';':  typeSemicolon,
}

// token.pos is the byte offset of the first character.
type token struct {
	typ  tokenType
	pos  int
	text string
}

func lex(input string) ([]token, error) {
	s := scanner{input: input}
	var tokens []token
	for {
		t, err := s.scan()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, t)
		if t.typ == typeEOF {
			return tokens, nil
		}
	}
}

type scanner struct {
	input string
	pos   int
}

// at returns the rune starting at byte offset i and its width.
func (s *scanner) at(i int) (rune, int) {
	if i >= len(s.input) {
		return eof, 0
	}
	return utf8.DecodeRuneInString(s.input[i:])
}

func (s *scanner) peek() rune {
	r, _ := s.at(s.pos)
	return r
}

func (s *scanner) advance() {
	_, w := s.at(s.pos)
	s.pos += w
}

func (s *scanner) skip(accept func(rune) bool) {
	for r := s.peek(); r != eof && accept(r); r = s.peek() {
		s.advance()
	}
}

func (s *scanner) scan() (token, error) {
	s.skip(func(r rune) bool { return r == ' ' })
	start := s.pos
	r := s.peek()

	var typ tokenType
	var err error
	switch {
	case r == eof:
		return token{typ: typeEOF, pos: start}, nil
	case unicode.IsLetter(r):
		typ, err = s.identifier()
	case r == '"':
		typ, err = s.quoted()
	case s.atNumber():
		typ, err = s.number()
	case r == '-' || r == '.':
		typ, err = s.rest()
	default:
		var ok bool
		if typ, ok = punctuation[r]; !ok {
			return token{}, s.unexpected()
		}
		s.advance()
	}
	if err != nil {
		return token{}, err
	}
	return token{typ: typ, pos: start, text: s.input[start:s.pos]}, nil
}

// end checks that a word stopped at a space or the end of the line.
func (s *scanner) end(typ tokenType, also string) (tokenType, error) {
	if r := s.peek(); r != ' ' && r != eof && !strings.ContainsRune(also, r) {
		return typeUnknown, s.unexpected()
	}
	return typ, nil
}

func (s *scanner) unexpected() error {
	return fmt.Errorf("unexpected character %#U at position %d", s.peek(), s.pos)
}

// identifier covers command names, note names like "A#3" and property keys
// like "env.attack".
func (s *scanner) identifier() (tokenType, error) {
	s.skip(func(r rune) bool {
		return unicode.IsLetter(r) || isDigit(r) || strings.ContainsRune("#_.-", r)
	})
	return s.end(typeIdentifier, "")
}

func (s *scanner) quoted() (tokenType, error) {
	start := s.pos
	s.advance()
	s.skip(func(r rune) bool { return r != '"' })
	if s.peek() == eof {
		return typeUnknown, fmt.Errorf("unterminated string at position %d", start)
	}
	s.advance()
	return typeString, nil
}

// rest reads a run of '-' and '.' such as "--", which marks an empty step.
func (s *scanner) rest() (tokenType, error) {
	s.skip(func(r rune) bool { return r == '-' || r == '.' })
	return s.end(typeIdentifier, "")
}

// atNumber reports whether a number starts at the current position: a digit,
// or '-' and '.' prefixes followed by one.
func (s *scanner) atNumber() bool {
	i := s.pos
	if r, w := s.at(i); r == '-' {
		i += w
	}
	if r, w := s.at(i); r == '.' {
		i += w
	}
	r, _ := s.at(i)
	return isDigit(r)
}

func (s *scanner) number() (tokenType, error) {
	if s.peek() == '-' {
		s.advance()
	}
	s.skip(isDigit)
	typ := typeInt
	if s.peek() == '.' {
		typ = typeFloat
		s.advance()
		s.skip(isDigit)
	}
	return s.end(typ, "/:,")
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
