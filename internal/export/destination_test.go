package export

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileDestination(t *testing.T) {
	dir := t.TempDir()
	d := NewFileDestination(filepath.Join(dir, "out", "designations.csv"))

	if err := d.Write(context.Background(), []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := d.Write(context.Background(), []byte("second")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "designations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q", data)
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "out"))
	if len(entries) != 1 {
		t.Errorf("left %d files, want 1", len(entries))
	}
}

func TestFileDestination_TimePlaceholder(t *testing.T) {
	dir := t.TempDir()
	d := NewFileDestination(filepath.Join(dir, "leaves-{time}.jsonl"))
	d.now = func() time.Time { return time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC) }

	if err := d.Write(context.Background(), []byte("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "leaves-20260301T083000Z.jsonl")); err != nil {
		t.Fatal(err)
	}
}

func TestWriterDestination(t *testing.T) {
	var buf bytes.Buffer
	d := NewWriterDestination(&buf)
	_ = d.Write(context.Background(), []byte("a\n"))
	_ = d.Write(context.Background(), []byte("b\n"))
	if buf.String() != "a\nb\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestS3Destination(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	t.Setenv("AWS_REQUEST_CHECKSUM_CALCULATION", "when_required")

	var (
		method, path, contentType string
		body                      []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx := context.Background()
	d, err := NewS3Destination(ctx, "hr-exports", "exports/{time}/employees.csv", "us-east-1", srv.URL, FormatCSV.ContentType())
	if err != nil {
		t.Fatal(err)
	}
	d.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	if err := d.Write(ctx, []byte("ID,NAME\ne1,Ada\n")); err != nil {
		t.Fatal(err)
	}
	if method != http.MethodPut {
		t.Errorf("method = %s", method)
	}
	if path != "/hr-exports/exports/20260102T030405Z/employees.csv" {
		t.Errorf("path = %s", path)
	}
	if contentType != "text/csv" {
		t.Errorf("content type = %q", contentType)
	}
	if !strings.Contains(string(body), "e1,Ada") {
		t.Errorf("body = %q", body)
	}
}

func TestNewS3Destination_RequiresBucket(t *testing.T) {
	if _, err := NewS3Destination(context.Background(), "", "k", "us-east-1", "", "text/csv"); err == nil {
		t.Fatal("expected error")
	}
}
