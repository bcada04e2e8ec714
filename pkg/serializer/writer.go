package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dvega/portreport/pkg/report"
)

// Format represents the output format type.
type Format string

const (
	// FormatXLSX outputs a multi-sheet workbook.
	FormatXLSX Format = "xlsx"
	// FormatJSON outputs data in JSON format.
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format.
	FormatYAML Format = "yaml"
)

// IsUnknown reports whether the format is not one of the supported values.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatXLSX, FormatJSON, FormatYAML:
		return false
	default:
		return true
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// SupportedFormats returns a list of all supported output formats.
func SupportedFormats() []string {
	return []string{
		string(FormatXLSX),
		string(FormatJSON),
		string(FormatYAML),
	}
}

// Serializer writes a finished report to its export destination.
type Serializer interface {
	Serialize(ctx context.Context, rep *report.Report) error
}

// Writer serializes a report's export view as JSON or YAML to an io.Writer.
type Writer struct {
	format Format
	output io.Writer
}

// NewWriter creates a Writer for the given text format. If output is nil,
// os.Stdout is used.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{format: format, output: output}
}

// Serialize implements Serializer.
func (w *Writer) Serialize(_ context.Context, rep *report.Report) error {
	export := rep.Export()
	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w.output)
		enc.SetIndent(2)
		if err := enc.Encode(export); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(export); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("format %q requires a file destination", w.format)
	}
}

// NewFileWriter creates a serializer writing to path in the given format. For
// JSON and YAML an empty path falls back to stdout; XLSX always requires a
// path.
func NewFileWriter(format Format, path string) (Serializer, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown output format: %q", format)
	}

	trimmed := strings.TrimSpace(path)
	if format == FormatXLSX {
		if trimmed == "" {
			return nil, fmt.Errorf("xlsx output requires a file path")
		}
		return &WorkbookWriter{Path: trimmed}, nil
	}

	if trimmed == "" {
		return NewWriter(format, os.Stdout), nil
	}
	return &fileWriter{format: format, path: trimmed}, nil
}

// fileWriter defers file creation to Serialize so a failed run leaves no
// stale artifact behind.
type fileWriter struct {
	format Format
	path   string
}

func (w *fileWriter) Serialize(ctx context.Context, rep *report.Report) error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := NewWriter(w.format, f).Serialize(ctx, rep); err != nil {
		return err
	}
	return f.Close()
}
