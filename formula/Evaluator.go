package formula

import "fmt"

// Lookup resolves a normalized variable name to a number. An error means the
// variable has no numeric value; Evaluate returns it wrapped.
type Lookup func(name string) (float64, error)

// Evaluate computes the formula with the standard precedence and left
// associativity. The result is either a float64 or an EvaluationError value;
// division by zero never fails. The only error returned is a wrapped lookup
// failure.
func (f *Formula) Evaluate(lookup Lookup) (any, error) {
	e := &evaluator{
		values:    make([]float64, 0, len(f.tokens)/2+1),
		operators: make([]string, 0, len(f.tokens)/2+1),
	}

	var evalErr *EvaluationError
	for _, t := range f.tokens {
		switch t.kind {
		case tokenNumber:
			evalErr = e.pushOperand(t.number)

		case tokenVariable:
			if lookup == nil {
				return nil, fmt.Errorf("%s: %w", t.text, UnknownVariableError)
			}
			value, err := lookup(t.text)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", t.text, err)
			}
			evalErr = e.pushOperand(value)

		case tokenOperator:
			if t.isAdditive() {
				e.resolveAdditive()
			}
			e.pushOperator(t.text)

		case tokenLeftParen:
			e.pushOperator(t.text)

		case tokenRightParen:
			evalErr = e.closeParenthesis()
		}

		if evalErr != nil {
			return *evalErr, nil
		}
	}

	e.resolveAdditive()

	return e.popValue(), nil
}

type evaluator struct {
	values    []float64
	operators []string
}

// pushOperand applies a pending * or / to (previous operand, value)
func (e *evaluator) pushOperand(value float64) *EvaluationError {
	if !e.topOperatorIs("*", "/") {
		e.values = append(e.values, value)
		return nil
	}

	left := e.popValue()
	return e.apply(e.popOperator(), left, value)
}

func (e *evaluator) resolveAdditive() {
	if !e.topOperatorIs("+", "-") {
		return
	}

	right := e.popValue()
	left := e.popValue()
	// + and - cannot fail
	_ = e.apply(e.popOperator(), left, right)
}

func (e *evaluator) closeParenthesis() *EvaluationError {
	e.resolveAdditive()
	// the matching "("
	e.popOperator()

	if !e.topOperatorIs("*", "/") {
		return nil
	}

	right := e.popValue()
	left := e.popValue()
	return e.apply(e.popOperator(), left, right)
}

func (e *evaluator) apply(operator string, left float64, right float64) *EvaluationError {
	var result float64
	switch operator {
	case "+":
		result = left + right
	case "-":
		result = left - right
	case "*":
		result = left * right
	case "/":
		if right == 0 {
			return &EvaluationError{Reason: DivisionByZeroReason}
		}
		result = left / right
	}

	e.values = append(e.values, result)
	return nil
}

func (e *evaluator) topOperatorIs(operators ...string) bool {
	if len(e.operators) == 0 {
		return false
	}

	top := e.operators[len(e.operators)-1]
	for _, operator := range operators {
		if top == operator {
			return true
		}
	}
	return false
}

func (e *evaluator) pushOperator(operator string) {
	e.operators = append(e.operators, operator)
}

func (e *evaluator) popOperator() string {
	top := e.operators[len(e.operators)-1]
	e.operators = e.operators[:len(e.operators)-1]
	return top
}

func (e *evaluator) popValue() float64 {
	top := e.values[len(e.values)-1]
	e.values = e.values[:len(e.values)-1]
	return top
}
