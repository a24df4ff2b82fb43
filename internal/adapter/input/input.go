// Package input decodes notifications supplied on stdin or in files, for
// the send and simulate commands.
package input

import (
	"context"
	"os"

	"github.com/jmylchreest/alerter/internal/model"
)

// Importer reads a batch of notifications from a source.
type Importer interface {
	// Name returns the source identifier (e.g., "stdin", a file path).
	Name() string

	// Import reads every notification from the source.
	Import(ctx context.Context) ([]model.Notification, error)
}

// Open returns an importer for path. "-" reads standard input.
func Open(path string) (Importer, func() error, error) {
	if path == "-" || path == "" {
		return NewStdinImporter(), func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &AdapterError{Source: path, Message: "failed to open input", Err: err}
	}
	return NewReaderImporter(path, f), f.Close, nil
}

// AdapterError represents an input-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	msg := e.Source + ": " + e.Message
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
