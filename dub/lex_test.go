package dub

import (
	"reflect"
	"testing"
)

// tok is a token without its position.
type tok struct {
	typ  tokenType
	text string
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input string
		want  []tok
	}{
		{"A '* 2", []tok{{typeIdentifier, "A"}, {typeQuote, "'"}, {typeAsterisk, "*"}, {typeInt, "2"}}},
		{"A 1 2", []tok{{typeIdentifier, "A"}, {typeInt, "1"}, {typeInt, "2"}}},
		{"'1:2 /    / 3,4", []tok{{typeQuote, "'"}, {typeInt, "1"}, {typeColon, ":"}, {typeInt, "2"}, {typeSlash, "/"}, {typeSlash, "/"}, {typeInt, "3"}, {typeComma, ","}, {typeInt, "4"}}},
		{"1.0", []tok{{typeFloat, "1.0"}}},
		{"-1.", []tok{{typeFloat, "-1."}}},
		{"-.1", []tok{{typeFloat, "-.1"}}},
		{`command "this is a string" 1`, []tok{{typeIdentifier, "command"}, {typeString, `"this is a string"`}, {typeInt, "1"}}},
		{"steps arp C4 -- A#3 . Bb2", []tok{{typeIdentifier, "steps"}, {typeIdentifier, "arp"}, {typeIdentifier, "C4"}, {typeIdentifier, "--"}, {typeIdentifier, "A#3"}, {typeIdentifier, "."}, {typeIdentifier, "Bb2"}}},
		{"set env.release_from_level on", []tok{{typeIdentifier, "set"}, {typeIdentifier, "env.release_from_level"}, {typeIdentifier, "on"}}},
		{"pattern new my-beat 16 -12", []tok{{typeIdentifier, "pattern"}, {typeIdentifier, "new"}, {typeIdentifier, "my-beat"}, {typeInt, "16"}, {typeInt, "-12"}}},
	}
	for _, test := range tests {
		tokens, err := lex(test.input)
		if err != nil {
			t.Errorf("%q: unexpected lex error: %v", test.input, err)
			continue
		}
		if last := tokens[len(tokens)-1]; last.typ != typeEOF {
			t.Errorf("%q: last token is %+v, want EOF", test.input, last)
		}
		var got []tok
		for _, token := range tokens[:len(tokens)-1] {
			got = append(got, tok{token.typ, token.text})
		}
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("%q:\nwant: %+v\ngot:  %+v", test.input, test.want, got)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	tokens, err := lex(`save  "a b" '1`)
	if err != nil {
		t.Fatal(err)
	}
	var got []int
	for _, token := range tokens {
		got = append(got, token.pos)
	}
	if want := []int{0, 6, 12, 13, 14}; !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestLexerErrors(t *testing.T) {
	for _, input := range []string{
		"a -x",
		"a 4x",
		"a $",
		`save "out.wav`,
	} {
		_, err := lex(input)
		if err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}
