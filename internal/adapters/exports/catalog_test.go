package exports

import (
	"testing"

	"rentcore/internal/reporting"
)

func TestCatalogBuiltins(t *testing.T) {
	catalog := NewCatalog()
	templates := catalog.Templates()
	want := []string{"maintenance_history", "property_rollup", "rent_roll"}
	if len(templates) != len(want) {
		t.Fatalf("expected %d templates, got %d", len(want), len(templates))
	}
	for i, slug := range want {
		if templates[i].Slug != slug {
			t.Fatalf("position %d: expected %s, got %s", i, slug, templates[i].Slug)
		}
	}
	if _, ok := catalog.Resolve("rent_roll"); !ok {
		t.Fatalf("rent_roll should resolve")
	}
	if _, ok := catalog.Resolve("unknown"); ok {
		t.Fatalf("unknown slug should not resolve")
	}
}

func TestRegisterRejectsInvalidTemplates(t *testing.T) {
	catalog := NewCatalog()
	build := func(reporting.Document, map[string]any) ([]map[string]any, error) { return nil, nil }

	if err := catalog.Register(Template{Slug: "", Build: build}); err == nil {
		t.Fatalf("expected empty slug rejection")
	}
	if err := catalog.Register(Template{Slug: "custom"}); err == nil {
		t.Fatalf("expected missing build rejection")
	}
	if err := catalog.Register(Template{Slug: "rent_roll", Build: build}); err == nil {
		t.Fatalf("expected duplicate slug rejection")
	}
	if err := catalog.Register(Template{Slug: "custom", Build: build}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := catalog.Resolve("custom"); !ok {
		t.Fatalf("custom template should resolve after registration")
	}
}

func TestSupportsFormat(t *testing.T) {
	open := Template{Slug: "open"}
	for _, format := range []Format{FormatJSON, FormatCSV, FormatHTML, FormatPNG} {
		if !open.SupportsFormat(format) {
			t.Fatalf("unrestricted template should support %s", format)
		}
	}
	if open.SupportsFormat("parquet") {
		t.Fatalf("unknown format should not be supported")
	}

	restricted := Template{Slug: "restricted", Formats: []Format{FormatCSV}}
	if !restricted.SupportsFormat(FormatCSV) || restricted.SupportsFormat(FormatPNG) {
		t.Fatalf("restricted template format check broken")
	}
}

func TestRentRollParameterValidation(t *testing.T) {
	catalog := NewCatalog()
	template, _ := catalog.Resolve("rent_roll")
	doc := testDocument()

	cases := []map[string]any{
		nil,
		{},
		{"month": 202601},
		{"month": "January 2026"},
		{"month": "2026-1"},
	}
	for _, params := range cases {
		if _, err := template.Build(doc, params); err == nil {
			t.Fatalf("expected rejection for params %+v", params)
		}
	}

	rows, err := template.Build(doc, map[string]any{"month": "2026-01"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(rows) != 1 || rows[0]["tenant"] != "Jordan Lee" || rows[0]["status"] != "Paid" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestMaintenanceHistoryRows(t *testing.T) {
	catalog := NewCatalog()
	template, _ := catalog.Resolve("maintenance_history")
	rows, err := template.Build(testDocument(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["unit"] != "Capitol Hill Duplex • Unit A" || rows[0]["cost"] != float64(120) {
		t.Fatalf("unexpected row %+v", rows[0])
	}
}
