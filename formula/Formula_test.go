package formula

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	testCases := map[string]string{
		"1":                "1",
		"  ((A1+B1) /2.0)": "((A1+B1)/2)",
		"x1 + y2":          "X1+Y2",
		"a1*(b2-3.50)":     "A1*(B2-3.5)",
		"2e3 / xyz12":      "2000/XYZ12",
		"(((5)))":          "(((5)))",
		"1e20*a1":          "1E+20*A1",
		"0.000001 - .5":    "1E-06-0.5",
		"AbC123 +\t1\n":    "ABC123+1",
	}

	for text, canonical := range testCases {
		t.Run(text, func(t *testing.T) {
			f, err := New(text)
			require.NoError(t, err)
			assert.Equal(t, canonical, f.String())

			again, err := New(f.String())
			require.NoError(t, err)
			assert.Equal(t, f.String(), again.String(), "canonicalization should be idempotent")
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	testCases := map[string]string{
		"empty":                  "",
		"whitespace":             "   \t",
		"invalid symbol":         "$",
		"invalid inside":         "2 $ 3",
		"letters only variable":  "x + 1",
		"digits before letters":  "1a",
		"closing first":          ")(",
		"unclosed":               "(1+2",
		"extra closing":          "(1+2))",
		"operator first":         "+1",
		"operator last":          "1+",
		"operator after paren":   "(+1)",
		"empty parens":           "()",
		"adjacent numbers":       "1 2",
		"adjacent variables":     "A1 B1",
		"adjacent groups":        "(1)(2)",
		"number before group":    "2(3)",
		"double operator":        "1+*2",
		"number out of range":    "1e400",
		"decimal without digits": ".",
		"unary minus":            "-1",
		"caret":                  "2^3",
	}

	for name, text := range testCases {
		t.Run(name, func(t *testing.T) {
			f, err := New(text)
			assert.Nil(t, f)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, FormatError), "error should wrap FormatError: %v", err)
		})
	}

	t.Run("message names the offending token", func(t *testing.T) {
		_, err := New("2 $ 3")
		assert.Contains(t, err.Error(), `"$"`)

		_, err = New("1+*2")
		assert.Contains(t, err.Error(), `"*" cannot follow "+"`)
	})

	t.Run("rules are checked in order", func(t *testing.T) {
		// invalid token wins over unbalanced parentheses
		_, err := New("($")
		assert.Contains(t, err.Error(), "not valid")

		// running parenthesis count wins over the first-token rule
		_, err = New(")1(")
		assert.Contains(t, err.Error(), "no matching opening parenthesis")
	})
}

func TestFormula_Equal(t *testing.T) {
	a, err := New("  ((A1+B1) /2.0)")
	require.NoError(t, err)
	b, err := New("((a1+b1)/2)")
	require.NoError(t, err)
	c, err := New("((A1+B1)/3)")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.Equal(t, a.Hash(), b.Hash())

	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Hash(), c.Hash())

	assert.False(t, a.Equal(nil))
	var empty *Formula
	assert.True(t, empty.Equal(nil))
}

func TestFormula_Variables(t *testing.T) {
	t.Run("distinct normalized sorted", func(t *testing.T) {
		f, err := New("c22 + a1*B1 - A1")
		require.NoError(t, err)
		assert.Equal(t, []string{"A1", "B1", "C22"}, f.Variables())
	})

	t.Run("none", func(t *testing.T) {
		f, err := New("1+2")
		require.NoError(t, err)
		assert.Empty(t, f.Variables())
	})

	t.Run("copy", func(t *testing.T) {
		f, err := New("A1")
		require.NoError(t, err)
		f.Variables()[0] = "Z9"
		assert.Equal(t, []string{"A1"}, f.Variables())
	})
}
