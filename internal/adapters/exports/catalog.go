// Package exports renders portfolio reports to downloadable artifacts in the
// background. A bounded worker takes export requests, materializes the
// requested report in one or more formats, and hands the bytes to a blob
// store.
package exports

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"rentcore/internal/reporting"
)

// Format names an artifact encoding a report can be rendered to.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
	FormatPNG  Format = "png"
)

// Column describes one field of a report's tabular output.
type Column struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Template defines a renderable report: its schema plus the function that
// derives rows from a document snapshot. An empty Formats list means every
// format is supported.
type Template struct {
	Slug        string
	Title       string
	Description string
	Columns     []Column
	Formats     []Format
	Build       func(doc reporting.Document, params map[string]any) ([]map[string]any, error)
}

// SupportsFormat reports whether the template can render the given format.
func (t Template) SupportsFormat(format Format) bool {
	if len(t.Formats) == 0 {
		return format == FormatJSON || format == FormatCSV || format == FormatHTML || format == FormatPNG
	}
	for _, f := range t.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Catalog resolves report templates by slug.
type Catalog struct {
	templates map[string]Template
}

// NewCatalog returns a catalog preloaded with the built-in reports.
func NewCatalog() *Catalog {
	c := &Catalog{templates: make(map[string]Template)}
	for _, t := range builtinTemplates() {
		c.templates[t.Slug] = t
	}
	return c
}

// Register adds a template; duplicate slugs are rejected.
func (c *Catalog) Register(t Template) error {
	if strings.TrimSpace(t.Slug) == "" {
		return fmt.Errorf("template slug required")
	}
	if t.Build == nil {
		return fmt.Errorf("template %s missing build function", t.Slug)
	}
	if _, exists := c.templates[t.Slug]; exists {
		return fmt.Errorf("template %s already registered", t.Slug)
	}
	c.templates[t.Slug] = t
	return nil
}

// Resolve returns the template registered under slug.
func (c *Catalog) Resolve(slug string) (Template, bool) {
	t, ok := c.templates[slug]
	return t, ok
}

// Templates lists every registered template ordered by slug.
func (c *Catalog) Templates() []Template {
	out := make([]Template, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

func monthParam(params map[string]any) (string, error) {
	raw, ok := params["month"]
	if !ok {
		return "", fmt.Errorf("parameter month required")
	}
	month, ok := raw.(string)
	if !ok || !monthPattern.MatchString(month) {
		return "", fmt.Errorf("parameter month must be a YYYY-MM string")
	}
	return month, nil
}

func builtinTemplates() []Template {
	return []Template{
		{
			Slug:        "rent_roll",
			Title:       "Monthly Rent Roll",
			Description: "Per-payment collection status for one month.",
			Columns: []Column{
				{Name: "unit", Title: "Unit"},
				{Name: "tenant", Title: "Tenant"},
				{Name: "month", Title: "Month"},
				{Name: "amount", Title: "Amount"},
				{Name: "status", Title: "Status"},
			},
			Build: func(doc reporting.Document, params map[string]any) ([]map[string]any, error) {
				month, err := monthParam(params)
				if err != nil {
					return nil, err
				}
				report := doc.MonthlyRentStatus(month)
				rows := make([]map[string]any, 0, len(report.Rows))
				for _, row := range report.Rows {
					rows = append(rows, map[string]any{
						"unit":   row.UnitLabel,
						"tenant": row.Tenant,
						"month":  row.Month,
						"amount": row.Amount,
						"status": string(row.Status),
					})
				}
				return rows, nil
			},
		},
		{
			Slug:        "property_rollup",
			Title:       "Property Rollup",
			Description: "Occupancy and revenue aggregated per property.",
			Columns: []Column{
				{Name: "property", Title: "Property"},
				{Name: "units", Title: "Units"},
				{Name: "occupied", Title: "Occupied"},
				{Name: "occupancy_pct", Title: "Occupancy %"},
				{Name: "monthly_revenue", Title: "Monthly Revenue"},
			},
			Build: func(doc reporting.Document, _ map[string]any) ([]map[string]any, error) {
				rollup := doc.PropertyRollup()
				rows := make([]map[string]any, 0, len(rollup))
				for _, stats := range rollup {
					rows = append(rows, map[string]any{
						"property":        stats.Name,
						"units":           stats.Units,
						"occupied":        stats.Occupied,
						"occupancy_pct":   stats.OccupancyPct,
						"monthly_revenue": stats.MonthlyRevenue,
					})
				}
				return rows, nil
			},
		},
		{
			Slug:        "maintenance_history",
			Title:       "Maintenance History",
			Description: "Completed maintenance work with cost per entry.",
			Columns: []Column{
				{Name: "unit", Title: "Unit"},
				{Name: "title", Title: "Title"},
				{Name: "category", Title: "Category"},
				{Name: "completed", Title: "Completed"},
				{Name: "cost", Title: "Cost"},
			},
			Build: func(doc reporting.Document, _ map[string]any) ([]map[string]any, error) {
				rows := make([]map[string]any, 0, len(doc.MaintenanceRecords))
				for _, record := range doc.MaintenanceRecords {
					rows = append(rows, map[string]any{
						"unit":      doc.UnitLabel(record.UnitID),
						"title":     record.Title,
						"category":  record.Category,
						"completed": record.Completed,
						"cost":      record.Cost,
					})
				}
				return rows, nil
			},
		},
	}
}
