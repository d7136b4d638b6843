package importer

import (
	"context"
	"fmt"
	"io"
)

// Reader parses one file into records. Implementations stop between rows
// once ctx is done and return its error.
type Reader interface {
	Read(ctx context.Context, r io.Reader) ([]Record, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// valuesFor pairs a row with the normalized headers. Missing trailing cells
// become empty strings and surplus cells are dropped.
func valuesFor(headers, row []string) map[string]string {
	values := make(map[string]string, len(headers))
	for i, header := range headers {
		if header == "" {
			continue
		}
		if _, exists := values[header]; exists {
			continue
		}
		if i < len(row) {
			values[header] = row[i]
		} else {
			values[header] = ""
		}
	}
	return values
}

func normalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, header := range headers {
		normalized[i] = normalizeHeader(header)
	}
	return normalized
}
