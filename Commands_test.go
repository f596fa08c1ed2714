package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/LancasterAlexUofU/sheet/formula"
	"github.com/LancasterAlexUofU/sheet/spreadsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func _execute(t *testing.T, args ...string) (string, error) {
	_clearConfigEnv(t)

	var stdout, stderr bytes.Buffer
	rootCmd := NewRootCommand(&stdout, &stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestEvalCommand(t *testing.T) {
	t.Run("constant", func(t *testing.T) {
		out, err := _execute(t, "eval", "(1 + 2) * 3 / 2")
		assert.NoError(t, err)
		assert.Equal(t, "4.5\n", out)
	})

	t.Run("variables", func(t *testing.T) {
		out, err := _execute(t, "eval", "a1 * B1 - 1", "--var", "A1=3", "--var", "b1=-2")
		assert.NoError(t, err)
		assert.Equal(t, "-7\n", out)
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := _execute(t, "eval", "1 / (2 - 2)")
		assert.Equal(t, formula.EvaluationError{Reason: formula.DivisionByZeroReason}, err)
	})

	t.Run("unknown variable", func(t *testing.T) {
		_, err := _execute(t, "eval", "A1 + 1")
		assert.ErrorIs(t, err, formula.UnknownVariableError)
	})

	t.Run("invalid formula", func(t *testing.T) {
		_, err := _execute(t, "eval", "1 +")
		assert.ErrorIs(t, err, formula.FormatError)
	})

	t.Run("bad var", func(t *testing.T) {
		_, err := _execute(t, "eval", "A1", "--var", "A1")
		assert.Error(t, err)

		_, err = _execute(t, "eval", "A1", "--var", "A1=x")
		assert.Error(t, err)

		_, err = _execute(t, "eval", "A1", "--var", "1A=1")
		assert.ErrorIs(t, err, spreadsheet.InvalidNameError)
	})
}

func TestFileCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")

	out, err := _execute(t, "set", path, "A1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "A1")

	out, err = _execute(t, "set", path, "b1", "=A1 * 10")
	require.NoError(t, err)
	assert.Contains(t, out, "=A1*10")

	out, err = _execute(t, "set", path, "A1", "3")
	require.NoError(t, err)
	assert.Regexp(t, `(?s)A1\s+3\s+3\s*\nB1\s+=A1\*10\s+30`, out)

	out, err = _execute(t, "get", path, "B1")
	require.NoError(t, err)
	assert.Equal(t, "30\n", out)

	out, err = _execute(t, "show", path)
	require.NoError(t, err)
	assert.Regexp(t, `(?s)A1\s+3\s+3\s*\nB1\s+=A1\*10\s+30\s*$`, out)

	_, err = _execute(t, "set", path, "A1", "=B1")
	assert.ErrorIs(t, err, spreadsheet.CircularDependencyError)

	out, err = _execute(t, "get", path, "A1")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Cells":{"A1":{"StringForm":"3"},"B1":{"StringForm":"=A1*10"}}}`, string(data))

	t.Run("missing file", func(t *testing.T) {
		_, err := _execute(t, "get", filepath.Join(t.TempDir(), "missing.json"), "A1")
		assert.ErrorIs(t, err, spreadsheet.ReadWriteError)

		_, err = _execute(t, "show", filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorIs(t, err, spreadsheet.ReadWriteError)
	})

	t.Run("wrong arguments", func(t *testing.T) {
		_, err := _execute(t, "set", path, "A1")
		assert.Error(t, err)
	})
}
