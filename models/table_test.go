package models

import (
	"reflect"
	"testing"
)

func TestNewEmptyTable(t *testing.T) {
	tb := NewEmptyTable()
	if tb.Len() != 0 {
		t.Fatalf("Len = %d, want 0", tb.Len())
	}
	if !reflect.DeepEqual(tb.Columns, Headers()) {
		t.Fatalf("columns = %v", tb.Columns)
	}
}

func TestTable_ColumnIndexResolvesKeys(t *testing.T) {
	tb := &Table{Columns: []string{"Date", "Pain (0-10)", "Mood"}}
	if got := tb.ColumnIndex(FieldPain); got != 1 {
		t.Fatalf("ColumnIndex(pain) = %d, want 1", got)
	}
	if got := tb.ColumnIndex("Mood"); got != 2 {
		t.Fatalf("ColumnIndex(Mood) = %d, want 2", got)
	}
	if got := tb.ColumnIndex(FieldStress); got != -1 {
		t.Fatalf("ColumnIndex(stress) = %d, want -1", got)
	}
}

func TestTable_AppendValuesAddsUnknownColumns(t *testing.T) {
	tb := &Table{Columns: []string{"Date", "Pain (0-10)"}, Rows: [][]string{{"2024-01-01", "3"}}}
	tb.AppendValues(map[string]string{"Date": "2024-01-02", "Zeta": "z", "Alpha": "a"})

	wantCols := []string{"Date", "Pain (0-10)", "Alpha", "Zeta"}
	if !reflect.DeepEqual(tb.Columns, wantCols) {
		t.Fatalf("columns = %v, want %v", tb.Columns, wantCols)
	}
	if !reflect.DeepEqual(tb.Rows[0], []string{"2024-01-01", "3", "", ""}) {
		t.Fatalf("first row not padded: %v", tb.Rows[0])
	}
	if !reflect.DeepEqual(tb.Rows[1], []string{"2024-01-02", "", "a", "z"}) {
		t.Fatalf("appended row = %v", tb.Rows[1])
	}
}

func TestTable_CloneIsDeep(t *testing.T) {
	tb := &Table{Columns: []string{"A"}, Rows: [][]string{{"1"}}}
	cp := tb.Clone()
	cp.Rows[0][0] = "2"
	cp.Columns[0] = "B"
	if tb.Rows[0][0] != "1" || tb.Columns[0] != "A" {
		t.Fatalf("clone shares memory with original")
	}
}

func TestTable_RowMapsPadsShortRows(t *testing.T) {
	tb := &Table{Columns: []string{"A", "B"}, Rows: [][]string{{"1"}}}
	got := tb.RowMaps()
	if len(got) != 1 || got[0]["A"] != "1" || got[0]["B"] != "" {
		t.Fatalf("RowMaps = %v", got)
	}
	var nilTable *Table
	if len(nilTable.RowMaps()) != 0 {
		t.Fatalf("nil table should have no rows")
	}
}
