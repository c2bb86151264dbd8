package services

import (
	"context"
	"fmt"
	"io"

	"symptracker/models"

	"go.uber.org/zap"
)

// StorageManager owns the persisted table. Callers never touch the file.
type StorageManager interface {
	LoadAll(ctx context.Context) (*models.Table, error)
	Append(ctx context.Context, rec models.Record) (*models.Table, error)
	PersistAll(ctx context.Context, t *models.Table) error
}

// TableBackend reads and overwrites the whole table in one place.
type TableBackend interface {
	// Load returns (nil, nil) when nothing has been persisted yet.
	Load(ctx context.Context) (*models.Table, error)
	Save(ctx context.Context, t *models.Table) error
	Describe() string
}

type StorageService struct {
	backend TableBackend
	logger  *zap.Logger
}

func NewStorageService(backend TableBackend, logger *zap.Logger) *StorageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageService{backend: backend, logger: logger}
}

// LoadAll returns the persisted table, or an empty canonical table when
// nothing exists yet. No schema check is applied to what is read.
func (s *StorageService) LoadAll(ctx context.Context) (*models.Table, error) {
	t, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	if t == nil {
		s.logger.Debug("No persisted table, starting empty", zap.String("backend", s.backend.Describe()))
		return models.NewEmptyTable(), nil
	}
	return t, nil
}

// Append loads the current table and adds one row for rec. It does not
// persist; call PersistAll with the result.
func (s *StorageService) Append(ctx context.Context, rec models.Record) (*models.Table, error) {
	t, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	t.AppendValues(rec.Values())
	return t, nil
}

// PersistAll overwrites the stored table. There is no locking: with two
// writers the last call wins.
func (s *StorageService) PersistAll(ctx context.Context, t *models.Table) error {
	if err := s.backend.Save(ctx, t); err != nil {
		return fmt.Errorf("persist table: %w", err)
	}
	s.logger.Info("Table persisted",
		zap.String("backend", s.backend.Describe()),
		zap.Int("rows", t.Len()))
	return nil
}

// Submit appends rec and persists the resulting table.
func Submit(ctx context.Context, m StorageManager, rec models.Record) (*models.Table, error) {
	t, err := m.Append(ctx, rec)
	if err != nil {
		return nil, err
	}
	if err := m.PersistAll(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ExportCSV writes the full table in the persistence format.
func ExportCSV(ctx context.Context, m StorageManager, w io.Writer) error {
	t, err := m.LoadAll(ctx)
	if err != nil {
		return err
	}
	return WriteTableCSV(w, t)
}
