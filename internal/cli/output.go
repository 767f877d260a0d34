package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vinicius-lino-figueiredo/jsondb"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // operation failed
	ExitCommandError = 2 // invalid arguments, config or database
)

// ExitError is an error with the exit code the process should finish with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors that are not an
// [ExitError] exit with [ExitFailure].
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// parseObject reads a JSON object given as argument. An empty argument is
// read as nil.
func parseObject(arg string, what string) (map[string]any, error) {
	if arg == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(arg))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid %s", what), err)
	}
	if strings.TrimSpace(arg[dec.InputOffset():]) != "" {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid %s", what), errors.New("unexpected data after the JSON object"))
	}
	if obj == nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid %s", what), errors.New("expected a JSON object"))
	}
	return obj, nil
}

// parseFilter reads a filter that must be given. Use {} to match every
// document.
func parseFilter(arg string) (map[string]any, error) {
	if arg == "" {
		return nil, WrapExitError(ExitCommandError, "invalid filter", jsondb.ErrFilterRequired)
	}
	return parseObject(arg, "filter")
}

// writeDocuments prints documents as an indented JSON array.
func writeDocuments(w io.Writer, docs []*jsondb.Document[jsondb.M]) error {
	b, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
