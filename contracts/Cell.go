package contracts

import "errors"

// Cell is the API view of a spreadsheet cell: Value is the text that was set
// (formulas in canonical form) and Result is the computed value rendered as
// text. An evaluation error is rendered as its reason.
type Cell struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Result string `json:"result"`
}

type CellList map[string]*Cell

var CellNotFoundError = errors.New("cell not found")
