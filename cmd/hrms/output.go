package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alfredjeanlab/hrms/internal/model"
	"github.com/alfredjeanlab/hrms/internal/ui"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type outputMode string

const (
	outputTable outputMode = "table"
	outputJSON  outputMode = "json"
	outputCSV   outputMode = "csv"
)

// parseOutput resolves --output and --json into one mode.
func parseOutput() (outputMode, error) {
	if jsonOutput {
		return outputJSON, nil
	}
	switch m := outputMode(strings.ToLower(outputFormat)); m {
	case outputTable, outputJSON, outputCSV:
		return m, nil
	case "":
		return outputTable, nil
	}
	return "", fmt.Errorf("unknown output format %q (must be table, json or csv)", outputFormat)
}

func currentOutput() outputMode {
	m, err := parseOutput()
	if err != nil {
		return outputTable
	}
	return m
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// listView is what every list-rendering command prints.
type listView struct {
	Resource   string
	Columns    []string
	Rows       [][]string
	Pagination *model.Pagination
	Records    any // encoded as-is for JSON output
}

func printList(w io.Writer, mode outputMode, v listView) error {
	switch mode {
	case outputJSON:
		return printJSON(w, map[string]any{
			"data":       v.Records,
			"pagination": v.Pagination,
		})
	case outputCSV:
		return writeCSV(w, v.Columns, v.Rows)
	}
	renderTable(w, v.Columns, v.Rows)
	fmt.Fprintln(w, ui.RenderMuted(paginationSummary(v.Resource, len(v.Rows), v.Pagination)))
	return nil
}

func writeCSV(w io.Writer, cols []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	return cw.WriteAll(rows)
}

// renderTable draws rows with go-pretty in the light box style.
func renderTable(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no records)")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = truncate(cell, 40)
		}
		t.AppendRow(row)
	}
	t.Render()
}

func paginationSummary(resource string, shown int, p *model.Pagination) string {
	if p == nil {
		return fmt.Sprintf("%d %s", shown, resource)
	}
	s := fmt.Sprintf("%d %s (page %d of %d, %d total)", shown, resource, p.CurrentPage, p.TotalPages, p.TotalCount)
	var nav []string
	if p.HasPrev {
		nav = append(nav, "prev")
	}
	if p.HasNext {
		nav = append(nav, "next")
	}
	if len(nav) > 0 {
		s += " [" + strings.Join(nav, "/") + "]"
	}
	return s
}

// detailField is one labelled line of a record detail view.
type detailField struct {
	Label string
	Value string
}

func printDetail(w io.Writer, mode outputMode, record any, fields []detailField) error {
	switch mode {
	case outputJSON:
		return printJSON(w, record)
	case outputCSV:
		cols := make([]string, len(fields))
		row := make([]string, len(fields))
		for i, f := range fields {
			cols[i], row[i] = f.Label, f.Value
		}
		return writeCSV(w, cols, [][]string{row})
	}
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label))
	}
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", ui.RenderAccent(fmt.Sprintf("%-*s", width+1, f.Label+":")), f.Value)
	}
	return nil
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

// formatCell renders a report value for a table cell.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%.2f", x)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// reportView lays out report rows in the given column order.
func reportView(name string, cols []string, rows []map[string]any, p *model.Pagination) listView {
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = strings.ToUpper(c)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = formatCell(r[c])
		}
		out[i] = cells
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return listView{Resource: name, Columns: header, Rows: out, Pagination: p, Records: rows}
}
