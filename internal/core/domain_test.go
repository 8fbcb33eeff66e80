package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		out     string
		wantErr error
	}{
		{"2500", "2500", nil},
		{" 12.34 ", "12.34", nil},
		{"-3.5", "-3.5", nil},
		{"1E-3", "0.001", nil},
		{"0", "0", nil},
		{"", "0", ErrMissingValue},
		{"   ", "0", ErrMissingValue},
		{"abc", "0", ErrMalformedValue},
		{"$2,500", "0", ErrMalformedValue},
		{"1.2.3", "0", ErrMalformedValue},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("%q expected %v, got %v", tc.in, tc.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q unexpected error: %v", tc.in, err)
		}
		if !got.Equal(decimal.RequireFromString(tc.out)) {
			t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]MalformedPolicy{
		"reject": PolicyReject,
		" Zero ": PolicyZero,
		"FAIL":   PolicyFail,
	} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Fatalf("%q expected %s, got %s (err=%v)", in, want, got, err)
		}
	}
	if _, err := ParsePolicy("coerce"); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}

func TestRecordSetClone(t *testing.T) {
	rs := RecordSet{{ID: "1", Value: decimal.NewFromInt(1)}}
	cp := rs.Clone()
	cp[0].ID = "changed"
	if rs[0].ID != "1" {
		t.Fatalf("clone shares backing array")
	}
	if RecordSet(nil).Clone() != nil {
		t.Fatalf("nil clone should stay nil")
	}
}

func TestRowIssueString(t *testing.T) {
	i := RowIssue{Row: 4, Column: "value", Raw: "abc", Reason: "is not a number"}
	if got := i.String(); got != `row 4: value "abc" is not a number` {
		t.Fatalf("unexpected issue text: %s", got)
	}
	i = RowIssue{Row: 2, Column: "value", Reason: "is missing"}
	if got := i.String(); got != "row 2: value is missing" {
		t.Fatalf("unexpected issue text: %s", got)
	}
}
