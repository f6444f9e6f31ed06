package domain

import (
	"errors"
	"fmt"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	// Error categories. Specific errors below wrap one of these so handlers
	// can map them to a status with errors.Is.
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateRelation = errors.New("relation already exists")
	ErrAlreadyExists     = errors.New("already exists")
	ErrSelfSubscription  = errors.New("cannot subscribe to yourself")
	ErrForbidden         = errors.New("forbidden")

	ErrParseUUID     = fmt.Errorf("%w: failed to parse UUID", ErrValidation)
	ErrTokenNotFound = errors.New("failed to token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
)

// Stable error codes carried in the response envelope next to the message.
const (
	CodeValidation        = "validation_error"
	CodeInvalidRequest    = "invalid_request"
	CodeNotFound          = "not_found"
	CodeDuplicateRelation = "duplicate_relation"
	CodeAlreadyExists     = "already_exists"
	CodeSelfReference     = "self_reference"
	CodeForbidden         = "forbidden"
	CodeUnauthorized      = "unauthorized"
	CodeInternal          = "internal_error"
)

// ErrorCode returns the code of the error category err belongs to, or ""
// when err wraps none of them.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSelfSubscription):
		return CodeSelfReference
	case errors.Is(err, ErrDuplicateRelation):
		return CodeDuplicateRelation
	case errors.Is(err, ErrAlreadyExists):
		return CodeAlreadyExists
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrTokenNotFound),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenExpired):
		return CodeUnauthorized
	}
	return ""
}

// Pagination echoes the page window back to list callers.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return p
}
