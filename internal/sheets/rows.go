package sheets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"inventory/internal/core"
)

// Column names of the record schema. Header cells must match exactly.
const (
	ColumnID        = "id"
	ColumnName      = "name"
	ColumnCategory  = "category"
	ColumnCondition = "condition"
	ColumnValue     = "value"
)

// row is the validated shape of one data row before it becomes a Record.
type row struct {
	ID        string
	Name      string
	Category  string
	Condition string
	Value     string `validate:"required,amount"`
}

var rowValidator = newRowValidator()

func newRowValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("amount", validateAmount)
	return v
}

// validateAmount accepts any value core.ParseAmount can read.
func validateAmount(fl validator.FieldLevel) bool {
	_, err := core.ParseAmount(fl.Field().String())
	return err == nil
}

// MapRecords converts data rows to records by header name and applies the
// malformed value policy to rows whose value is missing or not a number.
//
// Fully blank rows are skipped. Under PolicyFail the first malformed row
// aborts the mapping with ErrMalformedRecord and no records are returned.
func MapRecords(t Table, policy core.MalformedPolicy) (core.RecordSet, []core.RowIssue, error) {
	if err := policy.Validate(); err != nil {
		return nil, nil, err
	}

	cols := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}

	records := make(core.RecordSet, 0, len(t.Rows))
	var issues []core.RowIssue
	for i, cells := range t.Rows {
		if blank(cells) {
			continue
		}
		r := row{
			ID:        cell(cells, cols, ColumnID),
			Name:      cell(cells, cols, ColumnName),
			Category:  cell(cells, cols, ColumnCategory),
			Condition: cell(cells, cols, ColumnCondition),
			Value:     strings.TrimSpace(cell(cells, cols, ColumnValue)),
		}

		rec := core.Record{ID: r.ID, Name: r.Name, Category: r.Category, Condition: r.Condition}
		if err := rowValidator.Struct(r); err != nil {
			issue := core.RowIssue{
				Row:    t.Line(i),
				Column: ColumnValue,
				Raw:    r.Value,
				Reason: reason(err),
			}
			issues = append(issues, issue)
			switch policy {
			case core.PolicyReject:
				continue
			case core.PolicyFail:
				return nil, issues, fmt.Errorf("%w: %s", ErrMalformedRecord, issue)
			case core.PolicyZero:
				rec.Value = decimal.Zero
				records = append(records, rec)
				continue
			}
		}

		v, err := core.ParseAmount(r.Value)
		if err != nil {
			return nil, issues, fmt.Errorf("row %d: %w", t.Line(i), err)
		}
		rec.Value = v
		records = append(records, rec)
	}
	return records, issues, nil
}

func cell(cells []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func reason(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "required" {
		return "is missing"
	}
	return "is not a number"
}
