// internal/properties/writer.go
//
// Append-only writer for guacamole.properties.
//
// Context
// -------
// The generated file is a flat list of "name: value" lines preceded by a
// single comment line carrying the generation timestamp.  Lines are appended
// as they are produced; duplicates are not detected and values are written
// verbatim (no escaping of colons or newlines).  There is no temp-file and
// rename step, so a crash leaves a partial file and the container is expected
// to restart the whole run.
package properties

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileName is the name the web application looks for inside its home.
const FileName = "guacamole.properties"

// Writer appends properties to Path.  Zero Now means time.Now.
type Writer struct {
	Path string
	Now  func() time.Time

	written int
}

// NewWriter returns a Writer for <home>/guacamole.properties.
func NewWriter(home string) *Writer {
	return &Writer{Path: filepath.Join(home, FileName)}
}

// Set appends "name: value", creating the file and its header on first use.
func (w *Writer) Set(name, value string) error {
	if err := w.ensure(); err != nil {
		return err
	}
	f, err := os.OpenFile(w.Path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", w.Path, err)
	}
	if _, err := fmt.Fprintf(f, "%s: %s\n", name, value); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", w.Path, err)
	}
	w.written++
	return f.Close()
}

// SetOptional calls Set only when value is non-empty.
func (w *Writer) SetOptional(name, value string) error {
	if value == "" {
		return nil
	}
	return w.Set(name, value)
}

// Count reports how many properties this writer has appended.
func (w *Writer) Count() int { return w.written }

func (w *Writer) ensure() error {
	if _, err := os.Stat(w.Path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return err
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	header := fmt.Sprintf("# %s - generated %s\n", filepath.Base(w.Path), now().Format(time.UnixDate))
	return os.WriteFile(w.Path, []byte(header), 0o644)
}
