package formula

import (
	"errors"
	"fmt"
)

type validationRule func(tokens []token) error

// checked in this order; the first violation wins
var validationRules = []validationRule{
	oneTokenRule,
	validTokenRule,
	closingParenthesesRule,
	balancedParenthesesRule,
	firstTokenRule,
	lastTokenRule,
	parenthesisOperatorFollowingRule,
	extraFollowingRule,
}

func oneTokenRule(tokens []token) error {
	if len(tokens) == 0 {
		return errors.New("formula must not be empty")
	}
	return nil
}

func validTokenRule(tokens []token) error {
	for _, t := range tokens {
		if t.kind == tokenInvalid {
			return fmt.Errorf("formula may only contain (, ), +, -, *, /, variables and numbers; %q is not valid", t.text)
		}
	}
	return nil
}

func closingParenthesesRule(tokens []token) error {
	depth := 0
	for i, t := range tokens {
		switch t.kind {
		case tokenLeftParen:
			depth++
		case tokenRightParen:
			depth--
			if depth < 0 {
				return fmt.Errorf("closing parenthesis at token %d has no matching opening parenthesis", i+1)
			}
		}
	}
	return nil
}

func balancedParenthesesRule(tokens []token) error {
	opening, closing := 0, 0
	for _, t := range tokens {
		switch t.kind {
		case tokenLeftParen:
			opening++
		case tokenRightParen:
			closing++
		}
	}

	if opening != closing {
		return fmt.Errorf("unbalanced parentheses: %d opening, %d closing", opening, closing)
	}
	return nil
}

func firstTokenRule(tokens []token) error {
	first := tokens[0]
	if !first.isOperand() && first.kind != tokenLeftParen {
		return fmt.Errorf("formula cannot start with %q", first.text)
	}
	return nil
}

func lastTokenRule(tokens []token) error {
	last := tokens[len(tokens)-1]
	if !last.isOperand() && last.kind != tokenRightParen {
		return fmt.Errorf("formula cannot end with %q", last.text)
	}
	return nil
}

// after "(" or an operator: a number, a variable or "("
func parenthesisOperatorFollowingRule(tokens []token) error {
	for i := 0; i < len(tokens)-1; i++ {
		current, next := tokens[i], tokens[i+1]
		if current.kind != tokenLeftParen && current.kind != tokenOperator {
			continue
		}
		if !next.isOperand() && next.kind != tokenLeftParen {
			return fmt.Errorf("%q cannot follow %q", next.text, current.text)
		}
	}
	return nil
}

// after a number, a variable or ")": an operator or ")"
func extraFollowingRule(tokens []token) error {
	for i := 0; i < len(tokens)-1; i++ {
		current, next := tokens[i], tokens[i+1]
		if !current.isOperand() && current.kind != tokenRightParen {
			continue
		}
		if next.kind != tokenOperator && next.kind != tokenRightParen {
			return fmt.Errorf("%q cannot follow %q", next.text, current.text)
		}
	}
	return nil
}
