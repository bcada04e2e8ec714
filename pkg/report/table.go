package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Record is one exportable row. Columns and Values are parallel slices;
// different record shapes in one table are reconciled by Build.
type Record interface {
	Columns() []string
	Values() []any
}

// Table is a rectangular sheet: column keys in order and one value row per
// record. Cells without a value for their column are nil.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Build assembles a table from records. Columns are the union of all record
// columns in first-seen order; rows missing a column are null-filled so the
// result is rectangular.
func Build(name string, records []Record) *Table {
	t := &Table{Name: name}

	index := make(map[string]int)
	for _, rec := range records {
		for _, col := range rec.Columns() {
			if _, ok := index[col]; !ok {
				index[col] = len(t.Columns)
				t.Columns = append(t.Columns, col)
			}
		}
	}

	for _, rec := range records {
		row := make([]any, len(t.Columns))
		cols := rec.Columns()
		vals := rec.Values()
		for i, col := range cols {
			if i < len(vals) {
				row[index[col]] = vals[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

var headerCaser = cases.Title(language.English)

// HeaderTitle renders a column key as a human header, e.g. "endpoint_id"
// becomes "Endpoint Id".
func HeaderTitle(column string) string {
	return headerCaser.String(strings.ReplaceAll(column, "_", " "))
}

// Headers returns the human header row for the table.
func (t *Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = HeaderTitle(col)
	}
	return out
}
