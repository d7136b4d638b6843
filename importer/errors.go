package importer

import "errors"

var (
	// ErrInvalidFileType is returned before parsing when the upload is not a
	// delimited-text file (or an enabled spreadsheet format).
	ErrInvalidFileType = errors.New("invalid file type")
	// ErrEmptyFile is returned when parsing produced no data rows.
	ErrEmptyFile = errors.New("file has no data rows")
)

// ParseError carries a structural parser failure.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse file: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UserMessage renders an intake error the way it is shown next to the
// upload control. Parser messages are passed through verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var parseErr *ParseError
	switch {
	case errors.Is(err, ErrInvalidFileType):
		return "Please upload a valid CSV file."
	case errors.Is(err, ErrEmptyFile):
		return "The file appears to be empty or invalid."
	case errors.As(err, &parseErr):
		return "Parsing error: " + parseErr.Err.Error()
	default:
		return err.Error()
	}
}
