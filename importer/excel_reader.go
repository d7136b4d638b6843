package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads the first sheet of a workbook with the same header
// semantics as CSVReader.
type ExcelReader struct{}

func (r *ExcelReader) Read(ctx context.Context, input io.Reader) ([]Record, error) {
	file, err := excelize.OpenReader(input)
	if err != nil {
		return nil, fmt.Errorf("open excel workbook: %w", err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel workbook has no sheets")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	normalizedHeaders := normalizeHeaders(rows[0])
	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		records = append(records, Record{RowNumber: i + 2, Values: valuesFor(normalizedHeaders, row)})
	}

	return records, nil
}
