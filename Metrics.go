package main

import (
	"errors"

	"github.com/LancasterAlexUofU/sheet/formula"
	"github.com/LancasterAlexUofU/sheet/spreadsheet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cellWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_cell_writes_total",
		Help: "Cell writes by result",
	}, []string{"result"})

	recalculatedCells = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sheet_recalculated_cells",
		Help:    "Number of cells re-evaluated per successful write",
		Buckets: []float64{1, 2, 5, 10, 50, 100, 1000, 10000},
	})

	sheetLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_loads_total",
		Help: "Sheet lookups by cache result",
	}, []string{"result"})

	webhookDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_webhook_deliveries_total",
		Help: "Webhook deliveries by result",
	}, []string{"result"})
)

func writeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, spreadsheet.InvalidNameError):
		return "invalid_name"
	case errors.Is(err, formula.FormatError):
		return "invalid_formula"
	case errors.Is(err, spreadsheet.CircularDependencyError):
		return "circular"
	default:
		return "error"
	}
}
