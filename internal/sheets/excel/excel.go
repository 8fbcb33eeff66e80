// Package excel reads workbook files (xlsx, xlsm, xltx, xltm) with excelize.
package excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	ports "inventory/internal/sheets"
)

// zipMagic prefixes every OOXML workbook.
var zipMagic = []byte("PK\x03\x04")

type Reader struct{}

var _ ports.TableReader = Reader{}

func New() Reader {
	return Reader{}
}

// Sniff reports whether data looks like a workbook container.
func Sniff(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// ReadTable returns the first sheet of the workbook. Cells are raw values, so
// a number formatted as "$2,500.00" in the sheet is read as "2500".
func (Reader) ReadTable(ctx context.Context, name string, data []byte) (ports.Table, error) {
	if err := ctx.Err(); err != nil {
		return ports.Table{}, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return ports.Table{}, fmt.Errorf("%w: open workbook %q: %w", ports.ErrUnreadableFile, name, err)
	}
	defer f.Close()

	list := f.GetSheetList()
	if len(list) == 0 {
		return ports.Table{}, nil
	}
	sheet := list[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return ports.Table{}, fmt.Errorf("%w: read sheet %q: %w", ports.ErrUnreadableFile, sheet, err)
	}
	return ports.FromRows(sheet, rows), nil
}
