package spreadsheet

import (
	"fmt"
	"slices"
	"strings"

	"github.com/LancasterAlexUofU/sheet/formula"
)

const FormulaPrefix = "="

type cell struct {
	// float64, string or *formula.Formula
	contents any
	// float64, string or formula.EvaluationError
	value any
}

// parseContents turns user input into a cell; nil means the cell is empty.
func parseContents(name string, text string) (*cell, error) {
	if text == "" {
		return nil, nil
	}

	if number, ok := formula.ParseNumber(text); ok {
		return &cell{contents: number, value: number}, nil
	}

	if strings.HasPrefix(text, FormulaPrefix) {
		f, err := formula.New(strings.TrimPrefix(text, FormulaPrefix))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if slices.Contains(f.Variables(), name) {
			return nil, fmt.Errorf("%s references itself: %w", name, CircularDependencyError)
		}

		return &cell{contents: f}, nil
	}

	return &cell{contents: text, value: text}, nil
}

func (c *cell) formula() (*formula.Formula, bool) {
	f, ok := c.contents.(*formula.Formula)
	return f, ok
}

func (c *cell) dependees() []string {
	if f, ok := c.formula(); ok {
		return f.Variables()
	}
	return nil
}

// stringForm is the text that, given to SetContentsOfCell, recreates the cell.
func (c *cell) stringForm() string {
	switch contents := c.contents.(type) {
	case float64:
		return formula.FormatNumber(contents)
	case *formula.Formula:
		return FormulaPrefix + contents.String()
	case string:
		return contents
	default:
		return ""
	}
}
