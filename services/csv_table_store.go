package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"symptracker/models"
)

// CSVTableStore keeps the table in a single CSV file, rewritten on every save.
type CSVTableStore struct {
	Path string
}

func NewCSVTableStore(path string) *CSVTableStore {
	return &CSVTableStore{Path: path}
}

func (s *CSVTableStore) Describe() string { return "csv:" + s.Path }

func (s *CSVTableStore) Load(_ context.Context) (*models.Table, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	return ReadTableCSV(bufio.NewReader(f), s.Path)
}

// Save truncates and rewrites the file. A crash mid-write leaves it partial.
func (s *CSVTableStore) Save(_ context.Context, t *models.Table) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.Path, err)
	}

	w := bufio.NewWriter(f)
	if err := WriteTableCSV(w, t); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", s.Path, err)
	}
	return f.Close()
}
