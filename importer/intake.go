package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"memberdir/config"

	"github.com/gabriel-vasile/mimetype"
)

const (
	mimeCSV  = "text/csv"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Intake validates and parses one user-selected file.
type Intake struct {
	cfg     config.IntakeConfig
	readers func(format string) (Reader, error)
}

func NewIntake(cfg config.IntakeConfig) *Intake {
	return &Intake{cfg: cfg, readers: ReaderForFormat}
}

// DetectFormat decides whether a file may be parsed and with which reader.
// The declared MIME type is used when present; otherwise it is sniffed from
// content.
func (in *Intake) DetectFormat(filename, mimeType string, content []byte) (string, error) {
	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(filename)), "."))
	mediaType := declaredMediaType(mimeType)
	if mediaType == "" && len(content) > 0 {
		mediaType = sniffMediaType(content)
	}

	if in.cfg.AllowsFormat(config.FormatCSV) && (extension == "csv" || mediaType == mimeCSV) {
		return config.FormatCSV, nil
	}
	if in.cfg.AllowsFormat(config.FormatExcel) && (extension == "xlsx" || extension == "xlsm" || mediaType == mimeXLSX) {
		return config.FormatExcel, nil
	}
	return "", ErrInvalidFileType
}

// Load validates the file type and parses it under the configured timeout.
// A successful result always holds at least one record.
func (in *Intake) Load(ctx context.Context, filename, mimeType string, r io.Reader) ([]Record, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", filename, err)
	}

	format, err := in.DetectFormat(filename, mimeType, content)
	if err != nil {
		return nil, err
	}
	reader, err := in.readers(format)
	if err != nil {
		return nil, err
	}

	if in.cfg.ParseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.cfg.ParseTimeout)
		defer cancel()
	}

	// Read returns only once the reader has stopped, so callers stay busy
	// for the whole parse even after a timeout.
	records, err := reader.Read(ctx, bytes.NewReader(content))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ParseError{Err: ctxErr}
		}
		return nil, &ParseError{Err: err}
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return records, nil
}

func declaredMediaType(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == "application/octet-stream" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

func sniffMediaType(content []byte) string {
	detected := mimetype.Detect(content)
	switch {
	case detected.Is(mimeCSV):
		return mimeCSV
	case detected.Is(mimeXLSX):
		return mimeXLSX
	default:
		return detected.String()
	}
}
