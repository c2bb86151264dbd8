package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"symptracker/models"
)

// ReadTableCSV parses a header row followed by data rows. Rows shorter than
// the header are padded; longer rows or broken quoting fail the whole read.
// encoding/csv turns \r\n inside quoted cells into \n, so cells are only
// byte-identical after a round trip when they use \n line breaks.
func ReadTableCSV(r io.Reader, source string) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MalformedFileError{Source: source, Err: errors.New("no header row")}
	}
	if err != nil {
		return nil, &MalformedFileError{Source: source, Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &models.Table{Columns: header, Rows: [][]string{}}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedFileError{Source: source, Err: err}
		}
		if len(row) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, &MalformedFileError{
				Source: source,
				Line:   line,
				Err:    fmt.Errorf("expected %d fields, saw %d", len(header), len(row)),
			}
		}
		t.Rows = append(t.Rows, padRow(row, len(header)))
	}
	return t, nil
}

// WriteTableCSV serializes the table with its header row.
func WriteTableCSV(w io.Writer, t *models.Table) error {
	if t == nil {
		t = models.NewEmptyTable()
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(padRow(row, len(t.Columns))); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func padRow(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
