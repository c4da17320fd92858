package tagexpr

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenTag tokenKind = iota
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string // tag literal, populated for tokenTag only
}

func isOperatorRune(r rune) bool {
	switch r {
	case '&', '|', '!', '(', ')':
		return true
	}
	return false
}

// lex splits the expression into operator, paren, and tag tokens. Quoted
// strings (single or double) become a single tag literal with internal
// whitespace preserved. Bare words run until whitespace or an operator
// symbol; the words AND, OR, NOT (any case) are operators.
func lex(input string) []token {
	var tokens []token
	runes := []rune(input)

	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case r == '&':
			tokens = append(tokens, token{kind: tokenAnd})
			i++

		case r == '|':
			tokens = append(tokens, token{kind: tokenOr})
			i++

		case r == '!':
			tokens = append(tokens, token{kind: tokenNot})
			i++

		case r == '(':
			tokens = append(tokens, token{kind: tokenLParen})
			i++

		case r == ')':
			tokens = append(tokens, token{kind: tokenRParen})
			i++

		case r == '"' || r == '\'':
			quote := r
			j := i + 1
			for j < len(runes) && runes[j] != quote {
				j++
			}
			tokens = append(tokens, token{kind: tokenTag, text: string(runes[i+1 : j])})
			if j < len(runes) {
				j++ // consume closing quote; an unterminated quote runs to the end
			}
			i = j

		default:
			j := i
			for j < len(runes) && !unicode.IsSpace(runes[j]) && !isOperatorRune(runes[j]) && runes[j] != '"' && runes[j] != '\'' {
				j++
			}
			word := string(runes[i:j])
			switch strings.ToUpper(word) {
			case "AND":
				tokens = append(tokens, token{kind: tokenAnd})
			case "OR":
				tokens = append(tokens, token{kind: tokenOr})
			case "NOT":
				tokens = append(tokens, token{kind: tokenNot})
			default:
				tokens = append(tokens, token{kind: tokenTag, text: word})
			}
			i = j
		}
	}

	return tokens
}
