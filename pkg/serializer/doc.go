// Package serializer writes finished reports to their export formats.
//
// The package supports three output formats:
//   - XLSX: a multi-sheet workbook, the default artifact for human consumption
//   - JSON: machine-readable structured data
//   - YAML: human-readable structured data
//
// Usage:
//
//	s, err := serializer.NewFileWriter(serializer.FormatXLSX, "portainer_data_prod.xlsx")
//	if err != nil {
//		return err
//	}
//	if err := s.Serialize(ctx, rep); err != nil {
//		return err
//	}
//
// The XLSX writer shapes the report into one sheet per record collection with
// title-cased headers; non-scalar cells (lists, nested payloads) are encoded
// as JSON text. JSON and YAML render the report's export view directly.
package serializer
