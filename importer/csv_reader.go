package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader treats the first row as the header and skips blank lines.
// Stray quotes inside unquoted fields are kept as literal text.
type CSVReader struct{}

func (r *CSVReader) Read(ctx context.Context, input io.Reader) ([]Record, error) {
	// Strip a UTF-8 BOM; UTF-16 input with a BOM is decoded as well.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(input, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	normalizedHeaders := normalizeHeaders(headers)

	records := make([]Record, 0, 128)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError already names the source line.
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		records = append(records, Record{RowNumber: line, Values: valuesFor(normalizedHeaders, row)})
	}

	return records, nil
}
