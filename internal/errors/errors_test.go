package errors

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIngestError(t *testing.T) {
	underlying := errors.New("underlying error")
	err := NewIngestError("collect", "/path/to/file", underlying).WithRecoverable(true)

	assert.Equal(t, ErrorTypeIngest, err.Type)
	assert.Equal(t, "/path/to/file", err.Path)
	assert.Equal(t, "collect", err.Stage)
	assert.True(t, errors.Is(err, underlying))
	assert.True(t, err.IsRecoverable())
	assert.Equal(t, "ingest collect failed for /path/to/file: underlying error", err.Error())
}

func TestParseError(t *testing.T) {
	underlying := errors.New("syntax error")
	err := NewParseError("/path/to/file.go", 10, 5, "identifier", underlying)

	assert.Equal(t, 10, err.Line)
	assert.Equal(t, 5, err.Column)
	assert.Equal(t, "identifier", err.Token)
	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, `parse error at /path/to/file.go:10:5 (near token "identifier"): syntax error`, err.Error())
}

func TestQueryError(t *testing.T) {
	underlying := errors.New("invalid pattern")
	err := NewQueryError("find", "test.*pattern", underlying)

	assert.Equal(t, "find", err.Verb)
	assert.Equal(t, "test.*pattern", err.Pattern)
	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, `find "test.*pattern" failed: invalid pattern`, err.Error())
}

func TestGraphError(t *testing.T) {
	underlying := errors.New("dangling edge")
	err := NewGraphError("add_edge", underlying)

	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, "graph add_edge failed: dangling edge", err.Error())
}

func TestFileError(t *testing.T) {
	underlying := errors.New("permission denied")
	err := NewFileError("read", "/path/to/file", underlying)

	assert.Equal(t, ErrorTypePermission, err.Type)
	assert.Equal(t, "/path/to/file", err.Path)
	assert.Equal(t, "read", err.Operation)
	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, "file read failed for /path/to/file: permission denied", err.Error())
}

func TestFileErrorWithNotFound(t *testing.T) {
	underlying := errors.New("no such file or directory")
	err := NewFileError("stat", "/missing/file", underlying)
	assert.Equal(t, ErrorTypeFileNotFound, err.Type)
}

func TestConfigError(t *testing.T) {
	underlying := errors.New("invalid value")
	err := NewConfigError("field_name", "invalid_value", underlying)

	assert.Equal(t, "field_name", err.Field)
	assert.Equal(t, "invalid_value", err.Value)
	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, `config error for field field_name (value invalid_value): invalid value`, err.Error())
}

func TestMultiError(t *testing.T) {
	err1 := errors.New("error 1")
	err2 := errors.New("error 2")
	err3 := errors.New("error 3")

	multiErr := NewMultiError([]error{err1, err2, err3})
	assert.Len(t, multiErr.Errors, 3)
	assert.Equal(t, "3 errors: [error 1 error 2 error 3]", multiErr.Error())

	singleErr := NewMultiError([]error{err1})
	assert.Equal(t, "error 1", singleErr.Error())

	emptyErr := NewMultiError([]error{})
	assert.Equal(t, "no errors", emptyErr.Error())

	nilFiltered := NewMultiError([]error{err1, nil, err2, nil})
	assert.Len(t, nilFiltered.Errors, 2)

	assert.Len(t, multiErr.Unwrap(), 3)
}

func TestTimestamp(t *testing.T) {
	err := NewIngestError("test", "", errors.New("test"))
	assert.False(t, err.Timestamp.IsZero())

	now := time.Now()
	assert.False(t, err.Timestamp.After(now))
	assert.LessOrEqual(t, now.Sub(err.Timestamp), time.Second)
}

func BenchmarkIngestError(b *testing.B) {
	underlying := errors.New("underlying error")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := NewIngestError("collect", "/path/to/file", underlying).WithRecoverable(true)
		_ = err.Error()
	}
}
