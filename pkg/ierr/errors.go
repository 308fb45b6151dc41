// pkg/ierr/errors.go

package ierr

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// Error kinds recognised by the invoice desk. Concrete errors are marked with one
// of these so callers can branch with errors.Is.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrValidation         = errors.New("validation error")
	ErrExport             = errors.New("export failed")
	ErrNotFound           = errors.New("resource not found")
	ErrSystem             = errors.New("system error")

	// statusCodes is checked in order; an export failure caused by a bad input
	// (say an empty image) is still an export failure.
	statusCodes = []struct {
		kind   error
		status int
	}{
		{ErrExport, http.StatusInternalServerError},
		{ErrSystem, http.StatusInternalServerError},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrNotFound, http.StatusNotFound},
		{ErrValidation, http.StatusBadRequest},
	}
)

// ErrorBuilder chains context onto an error. Mark must be the last call.
type ErrorBuilder struct {
	err error
}

// NewError starts a builder chain from a message.
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

// NewErrorf starts a builder chain from a formatted message.
func NewErrorf(format string, args ...any) *ErrorBuilder {
	return &ErrorBuilder{err: errors.Newf(format, args...)}
}

// WithError starts a builder chain with an existing error.
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithMessage adds internal context.
func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint adds a message meant for the person at the screen.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// Mark tags the error with one of the kinds above and returns it.
func (b *ErrorBuilder) Mark(kind error) error {
	b.err = errors.Mark(b.err, kind)
	return b.err
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsExport(err error) bool {
	return errors.Is(err, ErrExport)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Hint returns the user facing hints attached to err, or fallback when none exist.
func Hint(err error, fallback string) string {
	if h := errors.FlattenHints(err); h != "" {
		return h
	}
	return fallback
}

// HTTPStatus maps an error kind to a response status.
func HTTPStatus(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.kind) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}
