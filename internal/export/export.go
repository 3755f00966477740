// Package export walks every page of a resource and writes the records as
// CSV or JSONL to a file, stdout or an S3 bucket, once or on a schedule.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alfredjeanlab/hrms/internal/listctl"
	"github.com/alfredjeanlab/hrms/internal/model"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
)

// ParseFormat accepts "csv", "jsonl" or "ndjson".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv":
		return FormatCSV, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or jsonl)", s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/x-ndjson"
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string { return string(f) }

// Dataset is a collected resource ready to encode.
type Dataset struct {
	Resource string
	Columns  []string
	Rows     [][]string // CSV cells, one slice per record
	Records  []any      // JSONL records, parallel to Rows
}

// Len returns the record count.
func (d *Dataset) Len() int { return len(d.Records) }

// Collect fetches every page for f, following hasNext, and projects each
// record through row. maxPages bounds the walk; zero means unbounded and a
// negative value is an error.
func Collect[T any](ctx context.Context, resource string, fetch listctl.FetchFunc[T], f model.Filters, columns []string, row func(T) []string, maxPages int) (*Dataset, error) {
	if maxPages < 0 {
		return nil, fmt.Errorf("collecting %s: invalid page limit %d", resource, maxPages)
	}
	ds := &Dataset{Resource: resource, Columns: columns}
	f = f.Clone()
	for page := 1; maxPages == 0 || page <= maxPages; page++ {
		f[model.FilterPage] = strconv.Itoa(page)
		p, err := fetch(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("fetching %s page %d: %w", resource, page, err)
		}
		if p == nil {
			break
		}
		for _, item := range p.Items {
			ds.Rows = append(ds.Rows, row(item))
			ds.Records = append(ds.Records, item)
		}
		if p.Pagination == nil || !p.Pagination.HasNext || len(p.Items) == 0 {
			break
		}
	}
	return ds, nil
}

// header is the first JSONL record written by WriteJSONL.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Resource  string    `json:"resource"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// WriteJSONL writes a header line and then one line per record.
func WriteJSONL(w io.Writer, ds *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Resource:  ds.Resource,
		Timestamp: time.Now().UTC(),
		Count:     ds.Len(),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	for i, r := range ds.Records {
		if err := enc.Encode(record{Type: ds.Resource, Data: r}); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return nil
}

// WriteCSV writes a header row of column names and then one row per record.
func WriteCSV(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(ds.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// Encode renders ds in format f.
func Encode(ds *Dataset, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatCSV:
		err = WriteCSV(&buf, ds)
	case FormatJSONL:
		err = WriteJSONL(&buf, ds)
	default:
		err = fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
