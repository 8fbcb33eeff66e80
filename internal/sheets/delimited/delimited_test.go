package delimited

import (
	"context"
	"testing"
)

func TestReadTableCSV(t *testing.T) {
	data := []byte("\xEF\xBB\xBFid,name,category,condition,value\n1,Drill,Equipment,Good,2500\n\n2,\"Chair, oak\",Furniture,Fair,800\n")
	tb, err := New().ReadTable(context.Background(), "inventory.csv", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tb.Header[0] != "id" {
		t.Fatalf("BOM not stripped from header: %q", tb.Header[0])
	}
	if len(tb.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tb.Rows))
	}
	if tb.Rows[1][1] != "Chair, oak" {
		t.Fatalf("quoted field not preserved: %q", tb.Rows[1][1])
	}
	// The blank line shifts the second record to line 4.
	if tb.Line(0) != 2 || tb.Line(1) != 4 {
		t.Fatalf("unexpected line numbers: %d, %d", tb.Line(0), tb.Line(1))
	}
	if tb.Sheet != "inventory" {
		t.Fatalf("unexpected sheet name %q", tb.Sheet)
	}
}

func TestReadTableTabSeparated(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"items.tsv", "id\tvalue\n1\t10\n"},
		{"items.txt", "id\tvalue\n1\t10\n"},
	}
	for _, tc := range cases {
		tb, err := New().ReadTable(context.Background(), tc.name, []byte(tc.data))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if len(tb.Header) != 2 || tb.Rows[0][1] != "10" {
			t.Fatalf("%s: tab separation not detected: %+v", tc.name, tb)
		}
	}
}

func TestReadTableRaggedRows(t *testing.T) {
	tb, err := New().ReadTable(context.Background(), "r.csv", []byte("id,name,category,value\n1,a\n2,b,c,3,extra\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tb.Rows[0]) != 2 || len(tb.Rows[1]) != 5 {
		t.Fatalf("ragged rows not kept as-is: %+v", tb.Rows)
	}
}

func TestReadTableEmpty(t *testing.T) {
	tb, err := New().ReadTable(context.Background(), "empty.csv", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tb.Empty() || len(tb.Header) != 0 {
		t.Fatalf("expected empty table, got %+v", tb)
	}
}
