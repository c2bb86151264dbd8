package services

import (
	"context"
	"time"

	"symptracker/models"
)

// memBackend is an in-memory TableBackend.
type memBackend struct {
	table   *models.Table
	saves   int
	loadErr error
	saveErr error
}

func (m *memBackend) Load(_ context.Context) (*models.Table, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.table.Clone(), nil
}

func (m *memBackend) Save(_ context.Context, t *models.Table) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.table = t.Clone()
	return nil
}

func (m *memBackend) Describe() string { return "memory" }

// diary appends one record per pain/fatigue pair, one day apart.
func diary(pain, fatigue []int) *models.Table {
	t := models.NewEmptyTable()
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := range pain {
		rec := models.NewDefaultRecord(start.AddDate(0, 0, i))
		rec.Pain = pain[i]
		rec.Fatigue = fatigue[i]
		t.AppendValues(rec.Values())
	}
	return t
}

var (
	samplePain    = []int{3, 4, 5, 6, 7, 3, 4, 5, 6, 7}
	sampleFatigue = []int{2, 3, 4, 5, 6, 2, 3, 4, 5, 6}
)
