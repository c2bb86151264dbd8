package services

import (
	"context"
	"encoding/json"
	"fmt"

	"symptracker/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SQLTableStore keeps the table in the symptom_rows table of a gorm database
// (postgres or sqlite). Save replaces every row inside one transaction.
type SQLTableStore struct {
	db *gorm.DB
}

func NewSQLTableStore(db *gorm.DB) (*SQLTableStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sql table store: db is nil")
	}
	if err := db.AutoMigrate(&models.StoredRow{}); err != nil {
		return nil, fmt.Errorf("sql table store: migrate: %w", err)
	}
	return &SQLTableStore{db: db}, nil
}

func (s *SQLTableStore) Describe() string {
	return "sql:" + s.db.Dialector.Name()
}

func (s *SQLTableStore) Load(ctx context.Context) (*models.Table, error) {
	var rows []models.StoredRow
	if err := s.db.WithContext(ctx).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	source := models.StoredRow{}.TableName()
	if !rows[0].IsHeader {
		return nil, &MalformedFileError{Source: source, Err: fmt.Errorf("header row missing")}
	}
	var header []string
	if err := json.Unmarshal(rows[0].Cells, &header); err != nil {
		return nil, &MalformedFileError{Source: source, Line: 1, Err: err}
	}

	t := &models.Table{Columns: header, Rows: make([][]string, 0, len(rows)-1)}
	for i, r := range rows[1:] {
		var cells []string
		if err := json.Unmarshal(r.Cells, &cells); err != nil {
			return nil, &MalformedFileError{Source: source, Line: i + 2, Err: err}
		}
		if len(cells) > len(header) {
			return nil, &MalformedFileError{
				Source: source,
				Line:   i + 2,
				Err:    fmt.Errorf("expected %d fields, saw %d", len(header), len(cells)),
			}
		}
		t.Rows = append(t.Rows, padRow(cells, len(header)))
	}
	return t, nil
}

func (s *SQLTableStore) Save(ctx context.Context, t *models.Table) error {
	if t == nil {
		t = models.NewEmptyTable()
	}
	batch := make([]models.StoredRow, 0, len(t.Rows)+1)
	header, err := json.Marshal(t.Columns)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	batch = append(batch, models.StoredRow{Position: 0, IsHeader: true, Cells: datatypes.JSON(header)})
	for i, row := range t.Rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		batch = append(batch, models.StoredRow{Position: i + 1, Cells: datatypes.JSON(cells)})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.StoredRow{}).Error; err != nil {
			return fmt.Errorf("clear rows: %w", err)
		}
		if err := tx.CreateInBatches(batch, 200).Error; err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
		return nil
	})
}
