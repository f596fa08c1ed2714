package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/LancasterAlexUofU/sheet/formula"
	"github.com/LancasterAlexUofU/sheet/spreadsheet"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResult(t *testing.T) {
	testCases := map[string]error{
		"ok":              nil,
		"invalid_name":    fmt.Errorf("%q: %w", "1A", spreadsheet.InvalidNameError),
		"invalid_formula": fmt.Errorf("A1: %w", formula.FormatError),
		"circular":        fmt.Errorf("A1 -> A1: %w", spreadsheet.CircularDependencyError),
		"error":           errors.New("disk full"),
	}

	for expected, err := range testCases {
		assert.Equal(t, expected, writeResult(err))
	}
}

func TestSheetRepository_Metrics(t *testing.T) {
	db, dbClose := _createTmpDb()
	defer dbClose()

	sheetRepository := _newSheetRepository(t, db, nil, 8)

	okBefore := testutil.ToFloat64(cellWritesTotal.WithLabelValues("ok"))
	circularBefore := testutil.ToFloat64(cellWritesTotal.WithLabelValues("circular"))

	_, err := sheetRepository.SetCell("metrics", "A1", "1")
	require.NoError(t, err)
	_, err = sheetRepository.SetCell("metrics", "A1", "=A1")
	require.Error(t, err)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(cellWritesTotal.WithLabelValues("ok")))
	assert.Equal(t, circularBefore+1, testutil.ToFloat64(cellWritesTotal.WithLabelValues("circular")))
}
