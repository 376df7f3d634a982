package idcodec

import (
	"errors"
	"fmt"

	"github.com/naviscope/naviscope/internal/types"
)

// LookupErrorReason indicates why a node lookup failed.
type LookupErrorReason int

const (
	ReasonNotFound LookupErrorReason = iota
	ReasonRemovedPath
	ReasonInvalidID
)

func (r LookupErrorReason) String() string {
	switch r {
	case ReasonNotFound:
		return "not found"
	case ReasonRemovedPath:
		return "path removed"
	case ReasonInvalidID:
		return "invalid ID"
	default:
		return "unknown"
	}
}

// LookupError provides context about why a node lookup failed.
type LookupError struct {
	FqnId  types.FqnId
	Reason LookupErrorReason
	Detail string
}

func (e *LookupError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("node lookup failed for %d: %s (%s)", e.FqnId, e.Reason, e.Detail)
	}
	return fmt.Sprintf("node lookup failed for %d: %s", e.FqnId, e.Reason)
}

// Is implements errors.Is for LookupError.
func (e *LookupError) Is(target error) bool {
	var le *LookupError
	if errors.As(target, &le) {
		return e.Reason == le.Reason
	}
	return false
}

var (
	ErrNodeNotFound     = &LookupError{Reason: ReasonNotFound}
	ErrNodePathRemoved  = &LookupError{Reason: ReasonRemovedPath}
	ErrNodeInvalidID    = &LookupError{Reason: ReasonInvalidID}
)

func NewNotFoundError(id types.FqnId) *LookupError {
	return &LookupError{FqnId: id, Reason: ReasonNotFound}
}

func NewInvalidIDError(id types.FqnId, detail string) *LookupError {
	return &LookupError{FqnId: id, Reason: ReasonInvalidID, Detail: detail}
}
