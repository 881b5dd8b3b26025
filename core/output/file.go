package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// File is a Sink writing to a diff file on disk.
type File struct {
	*Writer
	path string
}

// FileName returns the diff file name for a run started at ts.
func FileName(runID string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.diff", ts.UTC().Format("20060102_150405"), runID)
}

// NewFile creates folder if needed and opens a new diff file inside it.
func NewFile(folder, runID string, ts time.Time) (*File, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create folder %s: %w", folder, err)
	}

	path := filepath.Join(folder, FileName(runID, ts))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create diff file at %s: %w", path, err)
	}
	return &File{Writer: NewWriter(f), path: path}, nil
}

// Path returns the file location.
func (f *File) Path() string { return f.path }
