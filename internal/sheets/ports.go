package sheets

import (
	"context"
	"errors"
	"strings"

	"inventory/internal/core"
)

var (
	// ErrUnreadableFile wraps any decoding failure of the spreadsheet collaborators.
	ErrUnreadableFile = errors.New("file could not be read as a spreadsheet")
	// ErrMalformedRecord is returned under the fail policy.
	ErrMalformedRecord = errors.New("malformed record")
)

// Ports for inbound record sources.
type (
	// TableReader decodes raw file bytes into the first sheet's cell matrix.
	TableReader interface {
		ReadTable(ctx context.Context, name string, data []byte) (Table, error)
	}

	// RecordSource returns a ready record set without external input.
	RecordSource interface {
		Records(ctx context.Context) (core.RecordSet, error)
	}
)

// Table is the first sheet of a decoded file. Header holds the trimmed cells
// of the first row; Rows holds every following row as decoded.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string
	// Lines optionally holds the source line of each row. When nil, row i
	// is assumed to sit on line i+2.
	Lines []int
}

// FromRows splits a cell matrix into header and data rows.
func FromRows(sheet string, rows [][]string) Table {
	t := Table{Sheet: sheet}
	if len(rows) == 0 {
		return t
	}
	t.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		t.Header[i] = strings.TrimSpace(h)
	}
	t.Rows = rows[1:]
	return t
}

// Line returns the 1-based source line of data row i.
func (t Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}
