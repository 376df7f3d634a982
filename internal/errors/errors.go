// Package errors defines the typed error hierarchy used across the
// ingest pipeline, graph builder, and query engine. Every error carries
// enough context (operation, path, underlying cause) to be logged
// without a stack trace and to support errors.Is/errors.As chains.
package errors

import (
	"fmt"
	"time"
)

// ErrorType classifies an error for logging. The CLI does not map it to
// exit codes; every failure exits with status 1.
type ErrorType string

const (
	ErrorTypeIngest ErrorType = "ingest"
	ErrorTypeParse  ErrorType = "parse"
	ErrorTypeQuery  ErrorType = "query"
	ErrorTypeGraph  ErrorType = "graph"

	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypePermission   ErrorType = "permission"

	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeInternal ErrorType = "internal"
)

// IngestError represents a failure in a pipeline stage (C6/C7): collect,
// analyze, or lower for a given source path.
type IngestError struct {
	Type        ErrorType
	Path        string
	Stage       string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

func NewIngestError(stage, path string, err error) *IngestError {
	return &IngestError{
		Type:       ErrorTypeIngest,
		Stage:      stage,
		Path:       path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *IngestError) WithRecoverable(recoverable bool) *IngestError {
	e.Recoverable = recoverable
	return e
}

func (e *IngestError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("ingest %s failed for %s: %v", e.Stage, e.Path, e.Underlying)
	}
	return fmt.Sprintf("ingest %s failed: %v", e.Stage, e.Underlying)
}

func (e *IngestError) Unwrap() error { return e.Underlying }

func (e *IngestError) IsRecoverable() bool { return e.Recoverable }

// ParseError represents a syntax error surfaced by a language plugin's
// parser (spec C5 Parser capability).
type ParseError struct {
	Path       string
	Line       int
	Column     int
	Token      string
	Underlying error
	Timestamp  time.Time
}

func NewParseError(path string, line, column int, token string, err error) *ParseError {
	return &ParseError{
		Path:       path,
		Line:       line,
		Column:     column,
		Token:      token,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s:%d:%d (near token %q): %v",
		e.Path, e.Line, e.Column, e.Token, e.Underlying)
}

func (e *ParseError) Unwrap() error { return e.Underlying }

// QueryError represents a failure evaluating a shell-query-language
// operation (spec C4: ls/find/cat/deps).
type QueryError struct {
	Verb       string
	Pattern    string
	Underlying error
	Timestamp  time.Time
}

func NewQueryError(verb, pattern string, err error) *QueryError {
	return &QueryError{
		Verb:       verb,
		Pattern:    pattern,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *QueryError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("%s failed: %v", e.Verb, e.Underlying)
	}
	return fmt.Sprintf("%s %q failed: %v", e.Verb, e.Pattern, e.Underlying)
}

func (e *QueryError) Unwrap() error { return e.Underlying }

// GraphError represents an invariant violation or lookup failure inside
// the code graph (C2/C3), e.g. a reference to an FqnId the current
// snapshot never interned.
type GraphError struct {
	Op         string
	Underlying error
	Timestamp  time.Time
}

func NewGraphError(op string, err error) *GraphError {
	return &GraphError{Op: op, Underlying: err, Timestamp: time.Now()}
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph %s failed: %v", e.Op, e.Underlying)
}

func (e *GraphError) Unwrap() error { return e.Underlying }

// FileError represents a file-system-level error.
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}
	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return errStr == "permission denied" || errStr == "access denied"
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

func (e *FileError) Unwrap() error { return e.Underlying }

// ConfigError represents a bad value in naviscope.kdl / a CLI flag.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Underlying: err, Timestamp: time.Now()}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

func (e *ConfigError) Unwrap() error { return e.Underlying }

// MultiError aggregates independent failures, e.g. a batch ingest run
// where several files fail without aborting the rest.
type MultiError struct {
	Errors []error
}

func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

func (e *MultiError) Unwrap() []error { return e.Errors }
