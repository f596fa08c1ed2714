package spreadsheet

import (
	"errors"
	"github.com/LancasterAlexUofU/sheet/formula"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func _setCells(t *testing.T, s *Spreadsheet, cells ...[2]string) {
	for _, c := range cells {
		_, err := s.SetContentsOfCell(c[0], c[1])
		require.NoError(t, err, "set %s = %q", c[0], c[1])
	}
}

func TestNormalizeName(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		testCases := map[string]string{
			"A1":     "A1",
			"a1":     "A1",
			"xY22":   "XY22",
			"ZZZ999": "ZZZ999",
		}
		for name, expected := range testCases {
			actual, err := NormalizeName(name)
			assert.NoError(t, err)
			assert.Equal(t, expected, actual)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, name := range []string{"", "A", "1", "1A", "A1A", "A 1", "_A1", "A1 ", "A-1", "Ä1"} {
			_, err := NormalizeName(name)
			assert.True(t, errors.Is(err, InvalidNameError), "%q should be invalid", name)
		}
	})
}

func TestSpreadsheet_GetNamesOfAllNonemptyCells(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, New().GetNamesOfAllNonemptyCells())
	})

	t.Run("number text and formula", func(t *testing.T) {
		s := New()
		_setCells(t, s,
			[2]string{"b1", "hello"},
			[2]string{"A1", "2"},
			[2]string{"c1", "=A1*2"},
		)

		assert.Equal(t, []string{"A1", "B1", "C1"}, s.GetNamesOfAllNonemptyCells())
	})

	t.Run("emptied cell is removed", func(t *testing.T) {
		s := New()
		_setCells(t, s, [2]string{"A1", "2"}, [2]string{"B1", "3"}, [2]string{"A1", ""})

		assert.Equal(t, []string{"B1"}, s.GetNamesOfAllNonemptyCells())
	})
}

func TestSpreadsheet_GetCellContents(t *testing.T) {
	s := New()
	_setCells(t, s,
		[2]string{"A1", "2.50"},
		[2]string{"B1", "hello world"},
		[2]string{"C1", "= a1 * 2"},
	)

	contents, err := s.GetCellContents("a1")
	assert.NoError(t, err)
	assert.Equal(t, 2.5, contents)

	contents, err = s.GetCellContents("B1")
	assert.NoError(t, err)
	assert.Equal(t, "hello world", contents)

	contents, err = s.GetCellContents("C1")
	assert.NoError(t, err)
	require.IsType(t, &formula.Formula{}, contents)
	expected, _ := formula.New("A1*2")
	assert.True(t, expected.Equal(contents.(*formula.Formula)))

	contents, err = s.GetCellContents("Z99")
	assert.NoError(t, err)
	assert.Equal(t, "", contents)

	_, err = s.GetCellContents("1A")
	assert.True(t, errors.Is(err, InvalidNameError))
}

func TestSpreadsheet_GetCellValue(t *testing.T) {
	s := New()
	_setCells(t, s,
		[2]string{"A1", "2.5"},
		[2]string{"B1", "text"},
		[2]string{"C1", "=A1*2"},
		[2]string{"D1", "=1/0"},
	)

	value, err := s.GetCellValue("A1")
	assert.NoError(t, err)
	assert.Equal(t, 2.5, value)

	value, err = s.GetCellValue("B1")
	assert.NoError(t, err)
	assert.Equal(t, "text", value)

	value, err = s.GetCellValue("c1")
	assert.NoError(t, err)
	assert.Equal(t, 5.0, value)

	value, err = s.At("C1")
	assert.NoError(t, err)
	assert.Equal(t, 5.0, value)

	value, err = s.GetCellValue("D1")
	assert.NoError(t, err)
	assert.Equal(t, formula.EvaluationError{Reason: formula.DivisionByZeroReason}, value)

	value, err = s.GetCellValue("E1")
	assert.NoError(t, err)
	assert.Equal(t, "", value)

	_, err = s.GetCellValue("")
	assert.True(t, errors.Is(err, InvalidNameError))

	_, err = s.At("E")
	assert.True(t, errors.Is(err, InvalidNameError))
}

func TestSpreadsheet_GetCellStringForm(t *testing.T) {
	s := New()
	_setCells(t, s,
		[2]string{"A1", " 002.50 "},
		[2]string{"B1", "some text"},
		[2]string{"C1", "= a1 + 2.0 "},
	)

	testCases := map[string]string{
		"A1": "2.5",
		"B1": "some text",
		"C1": "=A1+2",
		"D1": "",
	}
	for name, expected := range testCases {
		actual, err := s.GetCellStringForm(name)
		assert.NoError(t, err)
		assert.Equal(t, expected, actual, name)
	}
}

func TestSpreadsheet_Changed(t *testing.T) {
	s := New()
	assert.False(t, s.Changed())

	_setCells(t, s, [2]string{"A1", "1"})
	assert.True(t, s.Changed())

	s = New()
	_, err := s.SetContentsOfCell("A1", "=A1")
	assert.Error(t, err)
	assert.False(t, s.Changed(), "failed change should not mark the sheet")

	_, err = s.SetContentsOfCell("A1", "=1+")
	assert.Error(t, err)
	assert.False(t, s.Changed())
}

func TestSpreadsheet_Clear(t *testing.T) {
	s := New()
	_setCells(t, s, [2]string{"A1", "1"}, [2]string{"B1", "=A1"})

	s.Clear()

	assert.Empty(t, s.GetNamesOfAllNonemptyCells())
	assert.True(t, s.Changed())
	assert.Equal(t, 0, s.graph.Size())
}
