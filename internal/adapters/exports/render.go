package exports

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
	"time"
)

type rendering struct {
	payload     []byte
	contentType string
}

func render(format Format, template Template, rows []map[string]any) (rendering, error) {
	switch format {
	case FormatJSON:
		return renderJSON(template, rows)
	case FormatCSV:
		return renderCSV(template, rows)
	case FormatHTML:
		return rendering{payload: renderHTML(template, rows), contentType: "text/html"}, nil
	case FormatPNG:
		payload, err := renderPNG(rows)
		if err != nil {
			return rendering{}, err
		}
		return rendering{payload: payload, contentType: "image/png"}, nil
	default:
		return rendering{}, fmt.Errorf("unsupported export format %s", format)
	}
}

func renderJSON(template Template, rows []map[string]any) (rendering, error) {
	payload, err := json.MarshalIndent(struct {
		Template    string           `json:"template"`
		Title       string           `json:"title"`
		Columns     []Column         `json:"columns"`
		Rows        []map[string]any `json:"rows"`
		GeneratedAt time.Time        `json:"generated_at"`
	}{
		Template:    template.Slug,
		Title:       template.Title,
		Columns:     template.Columns,
		Rows:        rows,
		GeneratedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return rendering{}, fmt.Errorf("marshal json: %w", err)
	}
	return rendering{payload: payload, contentType: "application/json"}, nil
}

func renderCSV(template Template, rows []map[string]any) (rendering, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	headers := make([]string, len(template.Columns))
	for i, column := range template.Columns {
		headers[i] = column.Name
	}
	if err := writer.Write(headers); err != nil {
		return rendering{}, err
	}
	for _, row := range rows {
		record := make([]string, len(template.Columns))
		for i, column := range template.Columns {
			record[i] = formatValue(row[column.Name])
		}
		if err := writer.Write(record); err != nil {
			return rendering{}, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return rendering{}, err
	}
	return rendering{payload: buf.Bytes(), contentType: "text/csv"}, nil
}

func renderHTML(template Template, rows []map[string]any) []byte {
	buf := &strings.Builder{}
	buf.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
	buf.WriteString(html.EscapeString(template.Title))
	buf.WriteString("</title></head><body><table><thead><tr>")
	for _, column := range template.Columns {
		buf.WriteString("<th>")
		buf.WriteString(html.EscapeString(column.Title))
		buf.WriteString("</th>")
	}
	buf.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		buf.WriteString("<tr>")
		for _, column := range template.Columns {
			buf.WriteString("<td>")
			buf.WriteString(html.EscapeString(formatValue(row[column.Name])))
			buf.WriteString("</td>")
		}
		buf.WriteString("</tr>")
	}
	buf.WriteString("</tbody></table></body></html>")
	return []byte(buf.String())
}

// renderPNG sketches a simple bar per row. It is a visual placeholder rather
// than a real chart, kept so image exports stay cheap and dependency-free.
func renderPNG(rows []map[string]any) ([]byte, error) {
	width, height := 400, 200
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	count := len(rows)
	if count == 0 {
		count = 1
	}
	barWidth := width / count
	if barWidth < 1 {
		barWidth = 1
	}
	for i := range rows {
		x0 := i * barWidth
		x1 := x0 + barWidth - 2
		if x1 <= x0 {
			x1 = x0 + 1
		}
		y0 := height - int(float64(height-20)*0.6)
		rect := image.Rect(x0, y0, x1, height-10)
		draw.Draw(img, rect, &image.Uniform{C: color.RGBA{R: 0, G: 102, B: 204, A: 255}}, image.Point{}, draw.Src)
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		return value.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", value)
	}
}
