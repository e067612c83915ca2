package swagger

import (
	"errors"
	"fmt"
)

// Declaration errors. They are returned while models and operations are
// declared, before the application starts serving.
var (
	// ErrMalformedDoc is returned when a documentation text cannot be
	// tokenized into fields. The concrete error is a *DocError.
	ErrMalformedDoc = errors.New("swagger: malformed documentation")

	// ErrBadSignature is returned when a signature has an empty or
	// duplicate parameter name, or cannot be derived from a value.
	ErrBadSignature = errors.New("swagger: invalid signature")

	// ErrEmptyIdentity is returned when a model is declared without an id.
	ErrEmptyIdentity = errors.New("swagger: model identity must not be empty")

	// ErrDuplicateModel is returned when a registry already holds a model
	// with the same identity.
	ErrDuplicateModel = errors.New("swagger: duplicate model identity")

	// ErrUnknownMethod is returned when an operation is bound to a name
	// that is not an HTTP verb.
	ErrUnknownMethod = errors.New("swagger: unknown HTTP method")

	// ErrNotCallable is returned when an operation is registered for a
	// handler that does not implement the operation's verb method.
	ErrNotCallable = errors.New("swagger: handler does not implement method")

	// ErrDuplicateOperation is returned when the same handler type and
	// method are registered twice.
	ErrDuplicateOperation = errors.New("swagger: duplicate operation")
)

// Assembly errors. They fail a single build and never the process.
var (
	// ErrUnresolvedPlaceholder is returned when a route pattern cannot be
	// turned into a path template for its operations. The concrete error
	// is a *PlaceholderError.
	ErrUnresolvedPlaceholder = errors.New("swagger: unresolved path placeholder")

	// ErrNoEligibleRoutes reports that no route carries a documented
	// operation. Build never returns it; the HTTP endpoints use it when
	// configured to answer 404 for an empty document.
	ErrNoEligibleRoutes = errors.New("swagger: no documented routes")
)

// DocError describes a documentation text that cannot be tokenized.
type DocError struct {
	// Line is the 1-based line of the offending field.
	Line int

	// Text is the trimmed content of that line.
	Text string

	// Reason explains what is wrong with the line.
	Reason string
}

func (e *DocError) Error() string {
	return fmt.Sprintf("swagger: malformed documentation at line %d (%q): %s", e.Line, e.Text, e.Reason)
}

// Is reports ErrMalformedDoc as the sentinel for DocError.
func (e *DocError) Is(target error) bool {
	return target == ErrMalformedDoc
}

// PlaceholderError describes a route whose capture groups do not line up
// with the positional arguments of the operations bound to it.
type PlaceholderError struct {
	// Pattern is the route pattern as registered.
	Pattern string

	// Handler names the handler type bound to the route.
	Handler string

	// Groups is the number of capture groups found in the pattern,
	// or -1 when the pattern cannot be reversed at all.
	Groups int

	// Args is the number of positional arguments of the operation.
	Args int

	// Method is the HTTP method of the offending operation, if known.
	Method string
}

func (e *PlaceholderError) Error() string {
	if e.Groups < 0 {
		return fmt.Sprintf("swagger: route %q bound to %s cannot be turned into a path template",
			e.Pattern, e.Handler)
	}
	msg := fmt.Sprintf("swagger: route %q bound to %s has %d capture groups but %d positional arguments",
		e.Pattern, e.Handler, e.Groups, e.Args)
	if e.Method != "" {
		msg += " in " + e.Method
	}
	return msg
}

// Is reports ErrUnresolvedPlaceholder as the sentinel for PlaceholderError.
func (e *PlaceholderError) Is(target error) bool {
	return target == ErrUnresolvedPlaceholder
}
