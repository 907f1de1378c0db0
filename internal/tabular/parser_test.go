package tabular

import (
	"testing"
)

func TestParseCSVBasic(t *testing.T) {
	data := []byte("Review Text,Rating,Date\nGreat product,5,2024-01-15\nNot bad,3,2024-02-01\n")

	table, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	if len(table.Headers) != 3 {
		t.Fatalf("expected 3 headers, got %d: %v", len(table.Headers), table.Headers)
	}
	if table.Headers[0] != "Review Text" {
		t.Fatalf("expected first header %q, got %q", "Review Text", table.Headers[0])
	}
	if len(table.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(table.Records))
	}
	if table.Records[0]["Review Text"] != "Great product" {
		t.Fatalf("unexpected cell value: %q", table.Records[0]["Review Text"])
	}
	if table.Records[1]["Rating"] != "3" {
		t.Fatalf("unexpected cell value: %q", table.Records[1]["Rating"])
	}
}

func TestParseCSVStripsByteOrderMark(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("review,rating\nhello there,4\n")...)

	table, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if table.Headers[0] != "review" {
		t.Fatalf("BOM not stripped from first header: %q", table.Headers[0])
	}
}

func TestParseCSVQuotedFields(t *testing.T) {
	data := []byte("review,rating\n\"Great, really great\",5\n")

	table, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if got := table.Records[0]["review"]; got != "Great, really great" {
		t.Fatalf("quoted field mishandled: %q", got)
	}
}

func TestParseCSVPadsShortRows(t *testing.T) {
	data := []byte("review,rating,date\nonly text here\n")

	table, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if got := table.Records[0]["rating"]; got != "" {
		t.Fatalf("expected empty padding for missing cell, got %q", got)
	}
}

func TestParseCSVSkipsBlankRows(t *testing.T) {
	data := []byte("review,rating\n\ngood enough,4\n  , \nanother one,2\n")

	table, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(table.Records) != 2 {
		t.Fatalf("expected 2 records after blank row filtering, got %d", len(table.Records))
	}
}

func TestParseCSVDuplicateHeaders(t *testing.T) {
	data := []byte("review,review,rating\nfirst,second,5\n")

	table, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if table.Headers[1] != "review_2" {
		t.Fatalf("expected duplicate header to be suffixed, got %q", table.Headers[1])
	}
	if table.Records[0]["review_2"] != "second" {
		t.Fatalf("duplicate column lost its value: %v", table.Records[0])
	}
}

func TestParseCSVNoHeader(t *testing.T) {
	if _, err := ParseCSV([]byte("\n  \n")); err == nil {
		t.Fatalf("expected error for input without a header row")
	}
}

func TestParseRejectsUnknownExtension(t *testing.T) {
	_, err := Parse("reviews.pdf", []byte("review\nhello world\n"))
	if err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestParseDefaultsToCSV(t *testing.T) {
	table, err := Parse("", []byte("review,rating\nplain text upload,5\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(table.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(table.Records))
	}
}
