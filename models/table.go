package models

import "sort"

// Table is the full ordered collection of rows. Columns are kept as found
// on disk; nothing here enforces the schema.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewEmptyTable returns a table with the canonical columns and no rows.
func NewEmptyTable() *Table {
	return &Table{Columns: Headers(), Rows: [][]string{}}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex finds a column by header, falling back to the schema key.
// Returns -1 when the table has no such column.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	if f, ok := Lookup(name); ok && f.Header != name {
		for i, c := range t.Columns {
			if c == f.Header {
				return i
			}
		}
	}
	return -1
}

// Column returns a copy of a column's cells. Short rows yield "".
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, true
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// AppendValues adds one row. Values for columns the table lacks add a new
// column, earlier rows padded with "". Missing schema columns come first in
// schema order, unknown ones follow sorted by name. Columns without a value
// get "".
func (t *Table) AppendValues(values map[string]string) {
	var missing, unknown []string
	for _, f := range Schema {
		if _, ok := values[f.Header]; ok && t.ColumnIndex(f.Header) < 0 {
			missing = append(missing, f.Header)
		}
	}
	for name := range values {
		if _, known := schemaByHeader[name]; !known && t.ColumnIndex(name) < 0 {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	missing = append(missing, unknown...)
	if len(missing) > 0 {
		t.Columns = append(t.Columns, missing...)
		for i := range t.Rows {
			t.Rows[i] = padRow(t.Rows[i], len(t.Columns))
		}
	}

	row := make([]string, len(t.Columns))
	for name, v := range values {
		row[t.ColumnIndex(name)] = v
	}
	t.Rows = append(t.Rows, row)
}

func padRow(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}

// RowMaps returns the rows as header->value maps, for JSON views.
func (t *Table) RowMaps() []map[string]string {
	out := make([]map[string]string, 0, t.Len())
	if t == nil {
		return out
	}
	for _, row := range t.Rows {
		m := make(map[string]string, len(t.Columns))
		for i, c := range t.Columns {
			if i < len(row) {
				m[c] = row[i]
			} else {
				m[c] = ""
			}
		}
		out = append(out, m)
	}
	return out
}
