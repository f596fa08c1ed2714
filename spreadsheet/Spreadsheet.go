// Package spreadsheet stores named cells holding numbers, text or formulas
// and keeps every formula value consistent with the cells it references.
//
// A Spreadsheet is not safe for concurrent use; callers serialize access.
package spreadsheet

import (
	"io"
	"log/slog"
	"sort"

	"github.com/LancasterAlexUofU/sheet/dependencygraph"
)

type Spreadsheet struct {
	cells   map[string]*cell
	graph   *dependencygraph.DependencyGraph
	changed bool
	logger  *slog.Logger
}

type Option func(s *Spreadsheet)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Spreadsheet) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(options ...Option) *Spreadsheet {
	s := &Spreadsheet{
		cells:  map[string]*cell{},
		graph:  dependencygraph.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Changed reports whether the sheet was modified since it was created, last
// saved or last loaded.
func (s *Spreadsheet) Changed() bool {
	return s.changed
}

// GetNamesOfAllNonemptyCells returns the sorted names of every non-empty cell.
func (s *Spreadsheet) GetNamesOfAllNonemptyCells() []string {
	names := make([]string, 0, len(s.cells))
	for name := range s.cells {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// GetCellContents returns a float64, a string or a *formula.Formula. An empty
// cell has the empty string as its contents.
func (s *Spreadsheet) GetCellContents(name string) (any, error) {
	c, err := s.lookupCell(name)
	if c == nil || err != nil {
		return "", err
	}

	return c.contents, nil
}

// GetCellValue returns a float64, a string or a formula.EvaluationError. An
// empty cell has the empty string as its value.
func (s *Spreadsheet) GetCellValue(name string) (any, error) {
	c, err := s.lookupCell(name)
	if c == nil || err != nil {
		return "", err
	}

	return c.value, nil
}

// At is the index-style accessor; it is equivalent to GetCellValue.
func (s *Spreadsheet) At(name string) (any, error) {
	return s.GetCellValue(name)
}

// GetCellStringForm returns the text that recreates the cell's contents:
// the number text, the literal text, or "=" followed by the canonical formula.
func (s *Spreadsheet) GetCellStringForm(name string) (string, error) {
	c, err := s.lookupCell(name)
	if c == nil || err != nil {
		return "", err
	}

	return c.stringForm(), nil
}

// Clear empties the sheet.
func (s *Spreadsheet) Clear() {
	if len(s.cells) > 0 {
		s.changed = true
	}

	s.cells = map[string]*cell{}
	s.graph = dependencygraph.New()
}

func (s *Spreadsheet) lookupCell(name string) (*cell, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	return s.cells[name], nil
}
