package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/LancasterAlexUofU/sheet/formula"
	"github.com/LancasterAlexUofU/sheet/spreadsheet"
	"github.com/spf13/cobra"
)

func NewRootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "sheet",
		Short:         "Spreadsheet engine with formula evaluation",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $SHEET_CONFIG)")

	loadConfig := func() (Config, *slog.Logger, error) {
		config, err := LoadConfig(configPath)
		if err != nil {
			return Config{}, nil, err
		}
		return config, config.NewLogger(stderr), nil
	}

	rootCmd.AddCommand(
		newServeCommand(loadConfig),
		newEvalCommand(),
		newSetCommand(loadConfig),
		newGetCommand(loadConfig),
		newShowCommand(loadConfig),
	)

	return rootCmd
}

type configLoader func() (Config, *slog.Logger, error)

func newServeCommand(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return RunApp(ctx, config, logger)
		},
	}
}

func newEvalCommand() *cobra.Command {
	var vars []string

	cmd := &cobra.Command{
		Use:     "eval <formula>",
		Short:   "Evaluate a formula",
		Example: `  sheet eval "(A1 + 2) * B1" --var A1=1 --var B1=4`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseVars(vars)
			if err != nil {
				return err
			}

			f, err := formula.New(args[0])
			if err != nil {
				return err
			}

			result, err := f.Evaluate(func(name string) (float64, error) {
				if value, ok := values[name]; ok {
					return value, nil
				}
				return 0, formula.UnknownVariableError
			})
			if err != nil {
				return err
			}

			if evalErr, ok := result.(formula.EvaluationError); ok {
				return evalErr
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatResult(result))
			return err
		},
	}
	cmd.Flags().StringArrayVar(&vars, "var", nil, "variable value as NAME=NUMBER (repeatable)")

	return cmd
}

func parseVars(vars []string) (map[string]float64, error) {
	values := make(map[string]float64, len(vars))
	for _, v := range vars {
		name, text, found := strings.Cut(v, "=")
		if !found {
			return nil, fmt.Errorf("--var %q: expected NAME=NUMBER", v)
		}

		normalized, err := spreadsheet.NormalizeName(name)
		if err != nil {
			return nil, err
		}

		value, ok := formula.ParseNumber(text)
		if !ok {
			return nil, fmt.Errorf("--var %q: %q is not a number", v, text)
		}
		values[normalized] = value
	}

	return values, nil
}

// openSheet loads the document at path; a missing file gives an empty sheet.
func openSheet(path string, logger *slog.Logger) (*spreadsheet.Spreadsheet, error) {
	sheet := spreadsheet.New(spreadsheet.WithLogger(logger))

	err := sheet.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return sheet, nil
	}

	return sheet, err
}

func newSetCommand(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "set <file> <cell> <text>",
		Short: "Set a cell in a sheet file and print the recalculated cells",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := loadConfig()
			if err != nil {
				return err
			}

			sheet, err := openSheet(args[0], logger)
			if err != nil {
				return err
			}

			names, err := sheet.SetContentsOfCell(args[1], args[2])
			if err != nil {
				return err
			}

			if err = sheet.Save(args[0]); err != nil {
				return err
			}

			return printCells(cmd.OutOrStdout(), sheet, names)
		},
	}
}

func newGetCommand(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <cell>",
		Short: "Print the value of a cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := loadConfig()
			if err != nil {
				return err
			}

			sheet := spreadsheet.New(spreadsheet.WithLogger(logger))
			if err = sheet.Load(args[0]); err != nil {
				return err
			}

			value, err := sheet.GetCellValue(args[1])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatResult(value))
			return err
		},
	}
}

func newShowCommand(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print every non-empty cell of a sheet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := loadConfig()
			if err != nil {
				return err
			}

			sheet := spreadsheet.New(spreadsheet.WithLogger(logger))
			if err = sheet.Load(args[0]); err != nil {
				return err
			}

			return printCells(cmd.OutOrStdout(), sheet, sheet.GetNamesOfAllNonemptyCells())
		},
	}
}

func printCells(w io.Writer, sheet *spreadsheet.Spreadsheet, names []string) error {
	table := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range names {
		cell := makeCell(sheet, name)
		_, _ = fmt.Fprintf(table, "%s\t%s\t%s\n", cell.Name, cell.Value, cell.Result)
	}

	return table.Flush()
}
