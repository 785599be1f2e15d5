package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/matsen/pubpage/internal/backend"
	"github.com/matsen/pubpage/internal/bibtex"
	"github.com/matsen/pubpage/internal/config"
	"github.com/matsen/pubpage/internal/publist"
	"github.com/matsen/pubpage/internal/source"
	"github.com/matsen/pubpage/internal/style"
)

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// codeError carries an explicit exit code.
type codeError struct {
	code int
	err  error
}

func (e *codeError) Error() string { return e.err.Error() }
func (e *codeError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &codeError{code: code, err: err}
}

func usageError(err error) error {
	return withCode(ExitError, err)
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ce *codeError
	if errors.As(err, &ce) {
		return ce.code
	}

	var parseErr *bibtex.ParseError
	var dateErr *publist.DateError
	var missing *style.MissingFieldError
	switch {
	case errors.As(err, &parseErr), errors.As(err, &dateErr), errors.As(err, &missing):
		return ExitDataError
	case errors.Is(err, config.ErrInvalid),
		errors.Is(err, style.ErrUnknownStyle),
		errors.Is(err, backend.ErrUnknownBackend),
		errors.Is(err, source.ErrUnsupported):
		return ExitConfigError
	}
	return ExitError
}

// outputJSON writes a value as formatted JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// markupOnStdout is set by commands whose stdout carries the rendered
// page; their JSON errors go to stderr instead.
var markupOnStdout bool

// writeError reports err on stderr, or as a JSON object on stdout unless
// stdout carries markup.
func writeError(stderr, stdout io.Writer, err error) {
	if jsonOutput {
		w := stdout
		if markupOnStdout {
			w = stderr
		}
		outputJSON(w, ErrorResponse{Error: err.Error(), Code: exitCodeFor(err)})
		return
	}
	fmt.Fprintf(stderr, "error: %s\n", err)
}
