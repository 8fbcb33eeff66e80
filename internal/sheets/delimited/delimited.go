// Package delimited reads comma or tab separated text files.
package delimited

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	ports "inventory/internal/sheets"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Reader struct{}

var _ ports.TableReader = Reader{}

func New() Reader {
	return Reader{}
}

// ReadTable parses data as CSV. Files named *.tsv, or whose first line has
// tabs but no commas, are read as tab separated. Rows may have any number of
// fields.
func (Reader) ReadTable(ctx context.Context, name string, data []byte) (ports.Table, error) {
	if err := ctx.Err(); err != nil {
		return ports.Table{}, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = separator(name, data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var (
		rows  [][]string
		lines []int
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ports.Table{}, fmt.Errorf("%w: parse %q: %w", ports.ErrUnreadableFile, name, err)
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, rec)
		lines = append(lines, line)
	}

	t := ports.FromRows(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), rows)
	if len(lines) > 1 {
		t.Lines = lines[1:]
	}
	return t, nil
}

func separator(name string, data []byte) rune {
	if strings.EqualFold(filepath.Ext(name), ".tsv") {
		return '\t'
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	if sc.Scan() {
		first := sc.Text()
		if strings.Contains(first, "\t") && !strings.Contains(first, ",") {
			return '\t'
		}
	}
	return ','
}
