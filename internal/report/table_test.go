package report

import (
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := []column{{title: "Student"}, {title: "Peers", right: true}, {title: "Status"}}
	rows := [][]string{
		{"bob", "12", "MEETS"},
		{"alexandra", "3", "NEEDS MORE"},
	}

	lines := formatTable(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Student    Peers  Status" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "bob           12  MEETS" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "alexandra      3  NEEDS MORE" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableCountsWideRunes(t *testing.T) {
	cols := []column{{title: "Student"}, {title: "Peers", right: true}}
	lines := formatTable(cols, [][]string{{"李明", "2"}, {"bob", "10"}})
	if lines[1] != "李明         2" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "bob         10" {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}

func TestFormatTableStylesBodyCellsOnly(t *testing.T) {
	cols := []column{
		{title: "Student", style: func(row int, cell string) string {
			return "<" + strings.Repeat("*", row+1) + cell + ">"
		}},
		{title: "Peers", right: true},
	}
	lines := formatTable(cols, [][]string{{"bob", "1"}, {"al", "22"}})
	if lines[0] != "Student  Peers" {
		t.Fatalf("header should not be styled: %q", lines[0])
	}
	if lines[1] != "<*bob>"+strings.Repeat(" ", 10)+"1" {
		t.Fatalf("styled cell should keep its column width: %q", lines[1])
	}
	if lines[2] != "<**al>"+strings.Repeat(" ", 10)+"22" {
		t.Fatalf("unexpected styled row: %q", lines[2])
	}
}

func TestFormatTableNoColumns(t *testing.T) {
	if lines := formatTable(nil, [][]string{{"x"}}); lines != nil {
		t.Fatalf("expected nil, got %q", lines)
	}
}
