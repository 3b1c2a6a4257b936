package sketch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives exported files. It plays the role of a browser download:
// the name is fixed by the exporter and the sink decides where it lands.
type Sink interface {
	Save(name string, data []byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(name string, data []byte) error

// Save calls f(name, data).
func (f SinkFunc) Save(name string, data []byte) error { return f(name, data) }

// DirSink writes exported files into a directory, replacing existing ones.
type DirSink string

// Save implements Sink.
func (d DirSink) Save(name string, data []byte) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("sketch: invalid file name %q", name)
	}
	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(string(d), name), data, 0o644) //nolint:gosec // exports are meant to be readable
}
