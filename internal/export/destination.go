package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Destination is the interface for an export target (file, stdout, S3).
type Destination interface {
	// Write sends one encoded export to the destination.
	Write(ctx context.Context, data []byte) error
}

// FileDestination writes each export to a local file, replacing it
// atomically. A "{time}" placeholder in the path expands to the UTC export
// time, so scheduled exports can keep history.
type FileDestination struct {
	path string
	now  func() time.Time
}

func NewFileDestination(path string) *FileDestination {
	return &FileDestination{path: path, now: time.Now}
}

// Path returns the file path for an export taken at t.
func (d *FileDestination) Path(t time.Time) string {
	return strings.ReplaceAll(d.path, "{time}", t.UTC().Format("20060102T150405Z"))
}

func (d *FileDestination) Write(_ context.Context, data []byte) error {
	path := d.Path(d.now())
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// WriterDestination writes each export to an io.Writer such as os.Stdout.
type WriterDestination struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterDestination(w io.Writer) *WriterDestination {
	return &WriterDestination{w: w}
}

func (d *WriterDestination) Write(_ context.Context, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.w.Write(data)
	return err
}
