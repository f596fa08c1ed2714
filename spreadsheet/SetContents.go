package spreadsheet

import (
	"errors"

	"github.com/LancasterAlexUofU/sheet/formula"
)

// SetContentsOfCell sets the contents of the named cell from text:
//
//   - "" empties the cell;
//   - a number literal stores a number;
//   - text starting with "=" stores the formula that follows it;
//   - anything else stores the text itself.
//
// It returns the cell's name followed by every cell that depends on it,
// directly or indirectly, in an order in which they can be re-evaluated.
// Those cells have already been re-evaluated when it returns.
//
// Errors wrap InvalidNameError, formula.FormatError or
// CircularDependencyError. On error the sheet is left exactly as it was.
func (s *Spreadsheet) SetContentsOfCell(name string, text string) ([]string, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	next, err := parseContents(name, text)
	if err != nil {
		return nil, err
	}

	previous := s.cells[name]
	previousDependees := s.graph.GetDependees(name)

	s.putCell(name, next)

	order, err := s.cellsToRecalculate(name)
	if err != nil {
		s.graph.ReplaceDependees(name, previousDependees)
		s.putCell(name, previous)

		s.logger.Debug("change rolled back", "cell", name, "error", err)
		return nil, err
	}

	s.recalculate(order)
	s.changed = true

	s.logger.Debug("cell set", "cell", name, "recalculated", len(order))
	return order, nil
}

// putCell stores c under name (nil deletes) and points name's dependency
// edges at the cells its formula references.
func (s *Spreadsheet) putCell(name string, c *cell) {
	if c == nil {
		delete(s.cells, name)
		s.graph.ReplaceDependees(name, nil)
		return
	}

	s.cells[name] = c
	s.graph.ReplaceDependees(name, c.dependees())
}

func (s *Spreadsheet) recalculate(order []string) {
	for _, name := range order {
		c, ok := s.cells[name]
		if !ok {
			continue
		}

		if f, isFormula := c.formula(); isFormula {
			c.value = s.evaluate(f)
		}
	}
}

// evaluate never fails: a reference that has no numeric value turns into an
// EvaluationError, and an EvaluationError of a referenced cell is passed on
// unchanged.
func (s *Spreadsheet) evaluate(f *formula.Formula) any {
	value, err := f.Evaluate(s.lookup)
	if err == nil {
		return value
	}

	var evalErr formula.EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr
	}

	return formula.EvaluationError{Reason: err.Error()}
}

func (s *Spreadsheet) lookup(name string) (float64, error) {
	c, ok := s.cells[name]
	if !ok {
		return 0, NotANumberError
	}

	switch value := c.value.(type) {
	case float64:
		return value, nil
	case formula.EvaluationError:
		return 0, value
	default:
		return 0, NotANumberError
	}
}
