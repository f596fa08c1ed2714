package formula

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const numberPattern = `(?:\d+\.\d*|\d*\.\d+|\d+)(?:[eE][+-]?\d+)?`

var signedNumberRegex = regexp.MustCompile(`^[+-]?` + numberPattern + `$`)

// exponent notation is used outside of [exponentLowerBound, exponentUpperBound)
const (
	exponentLowerBound = 1e-5
	exponentUpperBound = 1e15
)

// FormatNumber renders a number in its canonical text form: shortest
// round-trip digits, no insignificant zeros, upper-case signed exponent for
// very large or very small magnitudes.
func FormatNumber(value float64) string {
	if value == 0 {
		return "0"
	}

	abs := math.Abs(value)
	if abs < exponentLowerBound || abs >= exponentUpperBound {
		return strconv.FormatFloat(value, 'E', -1, 64)
	}

	return strconv.FormatFloat(value, 'f', -1, 64)
}

// CanonicalNumber parses a number literal and re-renders it with FormatNumber.
func CanonicalNumber(literal string) (string, error) {
	value, err := parseLiteral(literal)
	if err != nil {
		return "", err
	}

	return FormatNumber(value), nil
}

// ParseNumber reports whether text (ignoring surrounding spaces) is a signed
// number literal and returns its value.
func ParseNumber(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if !signedNumberRegex.MatchString(text) {
		return 0, false
	}

	value, err := parseLiteral(text)
	if err != nil {
		return 0, false
	}

	return value, true
}

func parseLiteral(literal string) (float64, error) {
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: literal, Err: strconv.ErrRange}
	}

	return value, nil
}
