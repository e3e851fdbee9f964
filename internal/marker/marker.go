// Package marker reads and refreshes the modification time of a checkpoint
// marker file. File contents are never read or written, and a missing marker
// is never created.
package marker

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/alexander-akhmetov/timestamp/internal/elapsed"
)

// File is a marker file on a filesystem.
type File struct {
	fs   afero.Fs
	path string
}

// New returns a marker for path on fs. A nil fs means the OS filesystem.
func New(fs afero.Fs, path string) *File {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &File{fs: fs, path: path}
}

// Path returns the marker file path.
func (f *File) Path() string {
	return f.path
}

// ModTime returns the marker's modification time in whole seconds,
// truncated toward zero.
func (f *File) ModTime() (int64, error) {
	info, err := f.fs.Stat(f.path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", f.path, err)
	}
	return elapsed.Unix(info.ModTime()), nil
}

// Touch sets both the access and modification time of the marker to sec.
func (f *File) Touch(sec int64) error {
	t := time.Unix(sec, 0)
	if err := f.fs.Chtimes(f.path, t, t); err != nil {
		return fmt.Errorf("chtimes %s: %w", f.path, err)
	}
	return nil
}
