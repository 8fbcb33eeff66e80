package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"inventory/internal/core"
	"inventory/internal/sheets"
	"inventory/internal/sheets/delimited"
	"inventory/internal/sheets/excel"
)

// oleMagic prefixes legacy binary workbooks (.xls) which are not supported.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// LoadResult is the outcome of one file load.
type LoadResult struct {
	Records core.RecordSet
	Issues  []core.RowIssue
	Sheet   string
	Err     error
}

// FileLoader turns uploaded bytes into a record set.
type FileLoader struct {
	workbook sheets.TableReader
	text     sheets.TableReader
	policy   core.MalformedPolicy
}

// NewFileLoader uses the excelize and encoding/csv readers. An empty policy
// means PolicyReject.
func NewFileLoader(policy core.MalformedPolicy) (*FileLoader, error) {
	return NewFileLoaderWithReaders(excel.New(), delimited.New(), policy)
}

func NewFileLoaderWithReaders(workbook, text sheets.TableReader, policy core.MalformedPolicy) (*FileLoader, error) {
	if policy == "" {
		policy = core.PolicyReject
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &FileLoader{workbook: workbook, text: text, policy: policy}, nil
}

// Policy returns the malformed value policy applied on load.
func (l *FileLoader) Policy() core.MalformedPolicy {
	return l.policy
}

// Load decodes the first sheet of data and maps its rows to records.
func (l *FileLoader) Load(ctx context.Context, name string, data []byte) (LoadResult, error) {
	reader, err := l.readerFor(name, data)
	if err != nil {
		return LoadResult{}, err
	}

	table, err := reader.ReadTable(ctx, name, data)
	if err != nil {
		return LoadResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return LoadResult{}, err
	}

	records, issues, err := sheets.MapRecords(table, l.policy)
	res := LoadResult{Records: records, Issues: issues, Sheet: table.Sheet}
	if err != nil {
		return res, fmt.Errorf("map sheet %q: %w", table.Sheet, err)
	}
	return res, nil
}

// LoadAsync runs Load in its own goroutine. The returned channel receives
// exactly one result and is then closed.
func (l *FileLoader) LoadAsync(ctx context.Context, name string, data []byte) <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		defer close(ch)
		res, err := l.Load(ctx, name, data)
		res.Err = err
		ch <- res
	}()
	return ch
}

func (l *FileLoader) readerFor(name string, data []byte) (sheets.TableReader, error) {
	switch {
	case excel.Sniff(data):
		return l.workbook, nil
	case bytes.HasPrefix(data, oleMagic):
		return nil, fmt.Errorf("%w: %q is a legacy binary workbook", sheets.ErrUnreadableFile, name)
	case !utf8.Valid(data):
		return nil, fmt.Errorf("%w: %q is neither a workbook nor UTF-8 text", sheets.ErrUnreadableFile, name)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		if len(data) > 0 {
			return nil, fmt.Errorf("%w: %q is not a valid workbook", sheets.ErrUnreadableFile, name)
		}
	}
	return l.text, nil
}
