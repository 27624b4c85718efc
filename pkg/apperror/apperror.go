// Package apperror defines the error kinds surfaced to API callers.
//
// Every failure carries a Kind so a client can branch on it without parsing
// the message. errors.Is compares kinds, so callers can test against the
// sentinel values (ErrNotFound, ...) after any amount of wrapping.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindInvalidArgument   Kind = "INVALID_ARGUMENT"
	KindNotFound          Kind = "NOT_FOUND"
	KindUnsupportedFormat Kind = "UNSUPPORTED_FORMAT"
	KindRenderFailure     Kind = "RENDER_FAILURE"
	KindUpstreamFailure   Kind = "UPSTREAM_FAILURE"
	KindTooLarge          Kind = "TOO_LARGE"
	KindUnsupportedMedia  Kind = "UNSUPPORTED_MEDIA"
	KindInternal          Kind = "INTERNAL"
)

var titles = map[Kind]string{
	KindInvalidArgument:   "The request is missing a required value or has the wrong shape.",
	KindNotFound:          "The requested document or revision does not exist.",
	KindUnsupportedFormat: "The requested export format is not supported.",
	KindRenderFailure:     "The export could not be produced.",
	KindUpstreamFailure:   "An external service failed to complete the request.",
	KindTooLarge:          "The uploaded file exceeds the size limit.",
	KindUnsupportedMedia:  "The uploaded file type cannot be read.",
	KindInternal:          "An unexpected error occurred.",
}

var statuses = map[Kind]int{
	KindInvalidArgument:   http.StatusBadRequest,
	KindNotFound:          http.StatusNotFound,
	KindUnsupportedFormat: http.StatusBadRequest,
	KindRenderFailure:     http.StatusInternalServerError,
	KindUpstreamFailure:   http.StatusBadGateway,
	KindTooLarge:          http.StatusRequestEntityTooLarge,
	KindUnsupportedMedia:  http.StatusUnsupportedMediaType,
	KindInternal:          http.StatusInternalServerError,
}

// Error is a failure with a stable kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err == nil:
		return string(e.Kind)
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Kind == t.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrRenderFailure     = &Error{Kind: KindRenderFailure}
	ErrUpstreamFailure   = &Error{Kind: KindUpstreamFailure}
)

func newf(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// InvalidArgument reports a missing or malformed caller-supplied value.
func InvalidArgument(format string, args ...any) *Error {
	return newf(KindInvalidArgument, nil, format, args...)
}

// NotFound reports an absent document or revision.
func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, nil, format, args...)
}

// UnsupportedFormat reports an export format outside the catalog.
func UnsupportedFormat(format string, args ...any) *Error {
	return newf(KindUnsupportedFormat, nil, format, args...)
}

// RenderFailure wraps an I/O error raised while producing an export.
func RenderFailure(err error, format string, args ...any) *Error {
	return newf(KindRenderFailure, err, format, args...)
}

// UpstreamFailure wraps an error returned by an external collaborator.
func UpstreamFailure(err error, format string, args ...any) *Error {
	return newf(KindUpstreamFailure, err, format, args...)
}

// TooLarge reports an upload over the configured size limit.
func TooLarge(format string, args ...any) *Error {
	return newf(KindTooLarge, nil, format, args...)
}

// UnsupportedMedia reports an upload whose type has no reader.
func UnsupportedMedia(format string, args ...any) *Error {
	return newf(KindUnsupportedMedia, nil, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Title returns the stable human-readable description of a kind.
func Title(kind Kind) string {
	if t, ok := titles[kind]; ok {
		return t
	}
	return titles[KindInternal]
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	if s, ok := statuses[KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
