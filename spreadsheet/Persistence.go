package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/gofrs/flock"
)

// Document is the persisted form of a sheet:
//
//	{"Cells": {"A1": {"StringForm": "5"}, "B1": {"StringForm": "=A1+2"}}}
type Document struct {
	Cells map[string]DocumentCell `json:"Cells"`
}

type DocumentCell struct {
	StringForm string `json:"StringForm"`
}

const (
	lockSuffix     = ".lock"
	lockTimeout    = 250 * time.Millisecond
	lockRetryDelay = 25 * time.Millisecond
	defaultPerm    = fs.FileMode(0644)
)

func (s *Spreadsheet) Document() Document {
	document := Document{Cells: make(map[string]DocumentCell, len(s.cells))}
	for name, c := range s.cells {
		document.Cells[name] = DocumentCell{StringForm: c.stringForm()}
	}

	return document
}

// MarshalDocument returns the sheet as an indented JSON document with sorted
// keys. It does not touch the changed flag.
func (s *Spreadsheet) MarshalDocument() ([]byte, error) {
	data, err := json.ConfigStd.MarshalIndent(s.Document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ReadWriteError, err)
	}

	return data, nil
}

// LoadDocument replaces the sheet with the cells of a JSON document. The
// document is applied to an empty sheet pass after pass until every cell is
// set; a pass that sets nothing means the document references cells it
// cannot resolve or contains a cycle. On any error the sheet is unchanged.
func (s *Spreadsheet) LoadDocument(data []byte) error {
	var document Document
	if err := json.ConfigStd.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("%w: malformed document: %w", ReadWriteError, err)
	}
	if document.Cells == nil {
		return fmt.Errorf("%w: document has no Cells", ReadWriteError)
	}

	return s.ApplyDocument(document)
}

// ApplyDocument is LoadDocument for an already decoded document.
func (s *Spreadsheet) ApplyDocument(document Document) error {
	loaded := New(WithLogger(s.logger))
	if err := loaded.populate(document); err != nil {
		return err
	}

	s.cells = loaded.cells
	s.graph = loaded.graph
	s.changed = false

	return nil
}

func (s *Spreadsheet) populate(document Document) error {
	contents := make(map[string]string, len(document.Cells))
	for key, c := range document.Cells {
		name, err := NormalizeName(key)
		if err != nil {
			return fmt.Errorf("%w: %w", ReadWriteError, err)
		}
		if _, ok := contents[name]; ok {
			return fmt.Errorf("%w: cell %s appears more than once", ReadWriteError, name)
		}
		contents[name] = c.StringForm
	}

	pending := make([]string, 0, len(contents))
	for name := range contents {
		pending = append(pending, name)
	}
	sort.Strings(pending)

	for pass := 1; len(pending) > 0; pass++ {
		unresolved := make([]string, 0, len(pending))
		var lastErr error

		for _, name := range pending {
			if _, err := s.SetContentsOfCell(name, contents[name]); err != nil {
				unresolved = append(unresolved, name)
				lastErr = err
			}
		}

		s.logger.Debug("document pass", "pass", pass, "set", len(pending)-len(unresolved), "pending", len(unresolved))

		if len(unresolved) == len(pending) {
			return fmt.Errorf("%w: cannot resolve %s: %w", ReadWriteError, strings.Join(unresolved, ", "), lastErr)
		}
		pending = unresolved
	}

	return nil
}

// Save writes the sheet document to path, replacing any existing file. The
// file is written to a temporary file first and renamed into place. A bad
// path, a missing directory, a read-only or locked target fail with
// ReadWriteError before anything is written.
func (s *Spreadsheet) Save(path string) error {
	perm, err := checkWritable(path)
	if err != nil {
		return err
	}

	lock, err := lockDocument(path, true)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	data, err := s.MarshalDocument()
	if err != nil {
		return err
	}

	if err = atomicWriteFile(path, data, perm); err != nil {
		return fmt.Errorf("%w: %w", ReadWriteError, err)
	}

	s.changed = false
	s.logger.Debug("sheet saved", "path", path, "cells", len(s.cells))
	return nil
}

// Load replaces the sheet with the document stored at path; see LoadDocument.
func (s *Spreadsheet) Load(path string) error {
	if err := checkPath(path); err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %w", ReadWriteError, err)
	}

	lock, err := lockDocument(path, false)
	if err != nil && !errors.Is(err, fs.ErrPermission) {
		return err
	}
	if lock != nil {
		defer lock.Unlock()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ReadWriteError, err)
	}

	if err = s.LoadDocument(data); err != nil {
		return err
	}

	s.logger.Debug("sheet loaded", "path", path, "cells", len(s.cells))
	return nil
}

func checkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ReadWriteError)
	}

	for _, r := range path {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: path %q contains invalid characters", ReadWriteError, path)
		}
	}

	return nil
}

// checkWritable returns the permissions the saved file should have.
func checkWritable(path string) (fs.FileMode, error) {
	if err := checkPath(path); err != nil {
		return 0, err
	}

	dir, err := os.Stat(filepath.Dir(path))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ReadWriteError, err)
	}
	if !dir.IsDir() {
		return 0, fmt.Errorf("%w: %s is not a directory", ReadWriteError, filepath.Dir(path))
	}

	target, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultPerm, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ReadWriteError, err)
	}

	if !target.Mode().IsRegular() {
		return 0, fmt.Errorf("%w: %s is not a regular file", ReadWriteError, path)
	}
	if target.Mode().Perm()&0200 == 0 {
		return 0, fmt.Errorf("%w: %s is read-only", ReadWriteError, path)
	}

	return target.Mode().Perm(), nil
}

// lockDocument takes an advisory lock on path + ".lock".
func lockDocument(path string, exclusive bool) (*flock.Flock, error) {
	lock := flock.New(path + lockSuffix)

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	var locked bool
	var err error
	if exclusive {
		locked, err = lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = lock.TryRLockContext(ctx, lockRetryDelay)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s is locked: %w", ReadWriteError, path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s is locked", ReadWriteError, path)
	}

	return lock, nil
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, perm)
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}

	if err != nil {
		_ = os.Remove(tmpName)
	}
	return err
}
