package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SourceFile Source = "file"
	SourceDemo Source = "demo"
)

const (
	// PolicyReject drops a malformed row from the record set.
	PolicyReject MalformedPolicy = "reject"
	// PolicyZero keeps a malformed row with a zero value.
	PolicyZero MalformedPolicy = "zero"
	// PolicyFail aborts the whole load on the first malformed row.
	PolicyFail MalformedPolicy = "fail"
)

type (
	Source string

	MalformedPolicy string

	// Record is one inventory item.
	Record struct {
		ID        string
		Name      string
		Category  string // grouping key, may be empty
		Condition string // descriptive only
		Value     decimal.Decimal
	}

	// RecordSet keeps records in source order.
	RecordSet []Record

	// RowIssue describes a row whose value could not be used as-is.
	RowIssue struct {
		Row    int // 1-based row number in the sheet, header is row 1
		Column string
		Raw    string
		Reason string
	}
)

var (
	ErrMissingValue   = errors.New("missing value")
	ErrMalformedValue = errors.New("value is not a number")
	ErrUnknownPolicy  = errors.New("unknown malformed value policy")
)

// ParsePolicy accepts the policy names case-insensitively.
func ParsePolicy(s string) (MalformedPolicy, error) {
	p := MalformedPolicy(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p MalformedPolicy) Validate() error {
	switch p {
	case PolicyReject, PolicyZero, PolicyFail:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, string(p))
	}
}

func (p MalformedPolicy) String() string {
	return string(p)
}

func (s Source) String() string {
	return string(s)
}

// Len returns the number of records.
func (rs RecordSet) Len() int {
	return len(rs)
}

// Clone returns a copy that shares no backing array with rs.
func (rs RecordSet) Clone() RecordSet {
	if rs == nil {
		return nil
	}
	out := make(RecordSet, len(rs))
	copy(out, rs)
	return out
}

func (i RowIssue) String() string {
	if i.Raw == "" {
		return fmt.Sprintf("row %d: %s %s", i.Row, i.Column, i.Reason)
	}
	return fmt.Sprintf("row %d: %s %q %s", i.Row, i.Column, i.Raw, i.Reason)
}
