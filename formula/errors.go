package formula

import "errors"

var FormatError = errors.New("invalid formula")

var UnknownVariableError = errors.New("unknown variable")

const DivisionByZeroReason = "Division by zero is not allowed."

// EvaluationError is a value, not a failure: it is what a formula evaluates
// to when it cannot produce a number. It implements error so it can travel
// through a Lookup and be recovered with errors.As.
type EvaluationError struct {
	Reason string
}

func (e EvaluationError) Error() string {
	return e.Reason
}

func (e EvaluationError) String() string {
	return e.Reason
}
