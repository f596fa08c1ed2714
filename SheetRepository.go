package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/LancasterAlexUofU/sheet/contracts"
	"github.com/LancasterAlexUofU/sheet/formula"
	"github.com/LancasterAlexUofU/sheet/spreadsheet"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.etcd.io/bbolt"
)

// SheetRepository keeps every sheet in its own bbolt bucket, one key per
// non-empty cell. Recently used sheets stay materialized in an LRU cache.
// All operations are serialized by one mutex.
type SheetRepository struct {
	db                *bbolt.DB
	serializer        contracts.CellSerializer
	webhookDispatcher contracts.WebhookDispatcher
	sheets            *lru.Cache[string, *spreadsheet.Spreadsheet]
	logger            *slog.Logger
	mutex             sync.Mutex
}

func NewSheetRepository(
	db *bbolt.DB, serializer contracts.CellSerializer,
	webhookDispatcher contracts.WebhookDispatcher, cacheSize int, logger *slog.Logger,
) (*SheetRepository, error) {
	sheets, err := lru.New[string, *spreadsheet.Spreadsheet](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("sheet cache: %w", err)
	}

	return &SheetRepository{
		db:                db,
		serializer:        serializer,
		webhookDispatcher: webhookDispatcher,
		sheets:            sheets,
		logger:            logger,
	}, nil
}

func (s *SheetRepository) CreateSheet() (string, error) {
	sheetId := uuid.NewString()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucket([]byte(sheetId))
		return err
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("sheet created", "sheet", sheetId)
	return sheetId, nil
}

func (s *SheetRepository) SetCell(sheetId string, cellId string, value string) (cells []*contracts.Cell, err error) {
	sheetId = strings.ToLower(sheetId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	defer func() {
		cellWritesTotal.WithLabelValues(writeResult(err)).Inc()
	}()

	sheet, err := s.loadSheet(sheetId)
	if errors.Is(err, contracts.SheetNotFoundError) {
		sheet, err = spreadsheet.New(spreadsheet.WithLogger(s.logger.With("sheet", sheetId))), nil
	}
	if err != nil {
		return nil, err
	}

	names, err := sheet.SetContentsOfCell(cellId, value)
	if err != nil {
		return nil, err
	}

	err = s.persistCell(sheetId, sheet, names[0])
	if err != nil {
		// the cached sheet is ahead of the database now
		s.sheets.Remove(sheetId)
		return nil, err
	}
	s.sheets.Add(sheetId, sheet)

	cells = make([]*contracts.Cell, 0, len(names))
	for _, name := range names {
		cells = append(cells, makeCell(sheet, name))
	}

	recalculatedCells.Observe(float64(len(names)))
	if s.webhookDispatcher != nil {
		s.webhookDispatcher.Notify(sheetId, cells)
	}

	return cells, nil
}

func (s *SheetRepository) GetCell(sheetId string, cellId string) (*contracts.Cell, error) {
	sheetId = strings.ToLower(sheetId)

	name, err := spreadsheet.NormalizeName(cellId)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, err := s.loadSheet(sheetId)
	if err != nil {
		return nil, err
	}

	cell := makeCell(sheet, name)
	if cell.Value == "" {
		return nil, fmt.Errorf("%s: %w", name, contracts.CellNotFoundError)
	}

	return cell, nil
}

func (s *SheetRepository) GetCellList(sheetId string) (*contracts.CellList, error) {
	sheetId = strings.ToLower(sheetId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	sheet, err := s.loadSheet(sheetId)
	if err != nil {
		return nil, err
	}

	cellList := contracts.CellList{}
	for _, name := range sheet.GetNamesOfAllNonemptyCells() {
		cellList[name] = makeCell(sheet, name)
	}

	return &cellList, nil
}

// loadSheet returns the cached sheet or rebuilds it from its bucket.
func (s *SheetRepository) loadSheet(sheetId string) (*spreadsheet.Spreadsheet, error) {
	if sheet, ok := s.sheets.Get(sheetId); ok {
		sheetLoadsTotal.WithLabelValues("hit").Inc()
		return sheet, nil
	}
	sheetLoadsTotal.WithLabelValues("miss").Inc()

	document := spreadsheet.Document{Cells: map[string]spreadsheet.DocumentCell{}}

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sheetId))
		if bucket == nil {
			return fmt.Errorf("%s: %w", sheetId, contracts.SheetNotFoundError)
		}

		return bucket.ForEach(func(k, v []byte) error {
			name, stringForm, err := s.serializer.Unmarshal(v)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", sheetId, k, err)
			}

			document.Cells[name] = spreadsheet.DocumentCell{StringForm: stringForm}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sheet := spreadsheet.New(spreadsheet.WithLogger(s.logger.With("sheet", sheetId)))
	if err = sheet.ApplyDocument(document); err != nil {
		return nil, fmt.Errorf("%s: %w", sheetId, err)
	}

	s.sheets.Add(sheetId, sheet)
	s.logger.Debug("sheet loaded", "sheet", sheetId, "cells", len(document.Cells))

	return sheet, nil
}

// persistCell writes the current string form of name; an empty cell is deleted.
func (s *SheetRepository) persistCell(sheetId string, sheet *spreadsheet.Spreadsheet, name string) error {
	stringForm, err := sheet.GetCellStringForm(name)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(sheetId))
		if err != nil {
			return err
		}

		if stringForm == "" {
			return bucket.Delete([]byte(name))
		}

		return bucket.Put([]byte(name), s.serializer.Marshal(name, stringForm))
	})
}

func makeCell(sheet *spreadsheet.Spreadsheet, name string) *contracts.Cell {
	stringForm, _ := sheet.GetCellStringForm(name)
	value, _ := sheet.GetCellValue(name)

	return &contracts.Cell{
		Name:   name,
		Value:  stringForm,
		Result: formatResult(value),
	}
}

func formatResult(value any) string {
	switch value := value.(type) {
	case float64:
		return formula.FormatNumber(value)
	case string:
		return value
	case formula.EvaluationError:
		return "#ERROR: " + value.Reason
	default:
		return fmt.Sprint(value)
	}
}
