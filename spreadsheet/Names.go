package spreadsheet

import (
	"fmt"
	"regexp"
	"strings"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z]+\d+$`)

// NormalizeName validates a cell name (letters followed by digits) and
// returns it upper-cased.
func NormalizeName(name string) (string, error) {
	if !nameRegex.MatchString(name) {
		return "", fmt.Errorf("%q: %w", name, InvalidNameError)
	}

	return strings.ToUpper(name), nil
}
