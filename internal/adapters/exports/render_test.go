package exports

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{float64(2800), "2800"},
		{float64(12.5), "12.5"},
		{float32(1.5), "1.5"},
		{42, "42"},
		{int64(9), "9"},
		{true, "true"},
		{time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), "2026-01-15T00:00:00Z"},
	}
	for _, tc := range cases {
		if got := formatValue(tc.in); got != tc.want {
			t.Fatalf("formatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderCSVHeaderAndRows(t *testing.T) {
	template := Template{
		Slug:    "demo",
		Columns: []Column{{Name: "unit", Title: "Unit"}, {Name: "amount", Title: "Amount"}},
	}
	out, err := renderCSV(template, []map[string]any{
		{"unit": "Unit A", "amount": float64(2800)},
		{"unit": "Unit B", "amount": float64(2600)},
	})
	if err != nil {
		t.Fatalf("render csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out.payload)), "\n")
	if len(lines) != 3 || lines[0] != "unit,amount" || lines[1] != "Unit A,2800" {
		t.Fatalf("unexpected csv %q", out.payload)
	}
	if out.contentType != "text/csv" {
		t.Fatalf("unexpected content type %s", out.contentType)
	}
}

func TestRenderHTMLEscapesValues(t *testing.T) {
	template := Template{
		Slug:    "demo",
		Title:   "Rent <Roll>",
		Columns: []Column{{Name: "tenant", Title: "Tenant"}},
	}
	payload := renderHTML(template, []map[string]any{{"tenant": "<script>alert(1)</script>"}})
	body := string(payload)
	if strings.Contains(body, "<script>") {
		t.Fatalf("html output not escaped: %s", body)
	}
	if !strings.Contains(body, "Rent &lt;Roll&gt;") {
		t.Fatalf("title not escaped: %s", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Fatalf("cell not escaped: %s", body)
	}
}

func TestRenderPNGProducesValidImage(t *testing.T) {
	payload, err := renderPNG([]map[string]any{{"a": 1}, {"a": 2}})
	if err != nil {
		t.Fatalf("render png: %v", err)
	}
	signature := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(payload, signature) {
		t.Fatalf("missing png signature")
	}

	empty, err := renderPNG(nil)
	if err != nil || !bytes.HasPrefix(empty, signature) {
		t.Fatalf("empty rows should still render: %v", err)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := render("parquet", Template{Slug: "demo"}, nil); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
