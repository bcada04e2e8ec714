package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dvega/portreport/pkg/report"
)

// WorkbookWriter serializes a report as a multi-sheet XLSX workbook.
type WorkbookWriter struct {
	// Path is the workbook destination.
	Path string
}

// Serialize implements Serializer. Each report table becomes one sheet with a
// title-cased header row; an empty table still produces its sheet with only
// headers absent when there are no columns.
func (w *WorkbookWriter) Serialize(ctx context.Context, rep *report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	props := &excelize.DocProperties{
		Creator:     "portreport " + rep.Header.Version,
		Title:       "Portainer fleet report",
		Identifier:  rep.Header.ID,
		Description: fmt.Sprintf("Collected from %s at %s", rep.Header.Source, rep.Header.GeneratedAt.Format(time.RFC3339)),
	}
	if err := f.SetDocProps(props); err != nil {
		return fmt.Errorf("set doc properties: %w", err)
	}

	for i, table := range rep.Tables() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.writeSheet(f, table, i == 0); err != nil {
			return fmt.Errorf("sheet %q: %w", table.Name, err)
		}
	}

	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// writeSheet renders one table. The first table reuses the default sheet so
// the workbook never carries an empty "Sheet1".
func (w *WorkbookWriter) writeSheet(f *excelize.File, table *report.Table, first bool) error {
	if first {
		if err := f.SetSheetName(f.GetSheetName(0), table.Name); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(table.Name); err != nil {
		return err
	}

	for col, header := range table.Headers() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(table.Name, cell, header); err != nil {
			return err
		}
	}

	for row, values := range table.Rows {
		for col, value := range values {
			rendered, err := renderCell(value)
			if err != nil {
				return err
			}
			if rendered == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(table.Name, cell, rendered); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderCell maps a record value to a spreadsheet cell value. Scalars pass
// through; lists and nested payloads are encoded as JSON text; nil stays an
// empty cell.
func renderCell(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	default:
		// nil slices and maps hide behind non-nil interfaces; keep their
		// cells empty instead of rendering "null"
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Pointer:
			if rv.IsNil() {
				return nil, nil
			}
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode cell: %w", err)
		}
		return string(encoded), nil
	}
}
