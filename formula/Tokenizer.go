package formula

import (
	"regexp"
	"strings"
)

type tokenKind uint8

const (
	tokenInvalid tokenKind = iota
	tokenLeftParen
	tokenRightParen
	tokenOperator
	tokenVariable
	tokenNumber
)

const variablePattern = `[a-zA-Z]+\d+`

var tokenRegex = regexp.MustCompile(`\(|\)|[+\-*/]|` + variablePattern + `|` + numberPattern)

type token struct {
	kind   tokenKind
	text   string
	number float64
}

// operand tokens may start a formula and follow "(" or an operator
func (t token) isOperand() bool {
	return t.kind == tokenNumber || t.kind == tokenVariable
}

func (t token) isAdditive() bool {
	return t.kind == tokenOperator && (t.text == "+" || t.text == "-")
}

// tokenize splits text into tokens. Runs of characters no token shape matches
// become tokenInvalid tokens, one per whitespace separated field.
func tokenize(text string) []token {
	tokens := make([]token, 0, len(text)/2+1)

	previousEnd := 0
	for _, match := range tokenRegex.FindAllStringIndex(text, -1) {
		tokens = appendInvalid(tokens, text[previousEnd:match[0]])
		tokens = append(tokens, classify(text[match[0]:match[1]]))
		previousEnd = match[1]
	}

	return appendInvalid(tokens, text[previousEnd:])
}

func appendInvalid(tokens []token, gap string) []token {
	for _, field := range strings.Fields(gap) {
		tokens = append(tokens, token{kind: tokenInvalid, text: field})
	}
	return tokens
}

func classify(text string) token {
	switch c := text[0]; {
	case c == '(':
		return token{kind: tokenLeftParen, text: text}
	case c == ')':
		return token{kind: tokenRightParen, text: text}
	case strings.IndexByte("+-*/", c) >= 0:
		return token{kind: tokenOperator, text: text}
	case isLetter(c):
		return token{kind: tokenVariable, text: text}
	default:
		return token{kind: tokenNumber, text: text}
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
