// Package formula parses, validates, canonicalizes and evaluates infix
// arithmetic expressions over numbers and cell variables.
//
// A formula is built from the operators + - * /, parentheses, non-negative
// number literals (decimal and scientific forms) and variables made of
// letters followed by digits. Whitespace between tokens is ignored.
package formula

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Formula is immutable once built by New.
type Formula struct {
	tokens    []token
	canonical string
	variables []string
}

// New validates text and builds its canonical form. It fails with an error
// wrapping FormatError when text is not a well-formed formula.
func New(text string) (*Formula, error) {
	tokens := tokenize(text)

	for _, rule := range validationRules {
		if err := rule(tokens); err != nil {
			return nil, fmt.Errorf("%w: %s", FormatError, err.Error())
		}
	}

	return canonicalize(tokens)
}

// String returns the canonical form.
func (f *Formula) String() string {
	return f.canonical
}

// Variables returns the distinct normalized variable names, sorted.
func (f *Formula) Variables() []string {
	variables := make([]string, len(f.variables))
	copy(variables, f.variables)
	return variables
}

func (f *Formula) Equal(other *Formula) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.canonical == other.canonical
}

// Hash is derived from the canonical form only, so equal formulas share it.
func (f *Formula) Hash() uint64 {
	return xxhash.Sum64String(f.canonical)
}

func canonicalize(tokens []token) (*Formula, error) {
	var builder strings.Builder
	seen := map[string]bool{}
	variables := make([]string, 0)

	for i := range tokens {
		switch tokens[i].kind {
		case tokenVariable:
			tokens[i].text = strings.ToUpper(tokens[i].text)
			if !seen[tokens[i].text] {
				seen[tokens[i].text] = true
				variables = append(variables, tokens[i].text)
			}
		case tokenNumber:
			value, err := parseLiteral(tokens[i].text)
			if err != nil {
				return nil, fmt.Errorf("%w: number %s is out of range", FormatError, tokens[i].text)
			}
			tokens[i].number = value
			tokens[i].text = FormatNumber(value)
		}
		builder.WriteString(tokens[i].text)
	}

	sort.Strings(variables)

	return &Formula{
		tokens:    tokens,
		canonical: builder.String(),
		variables: variables,
	}, nil
}
