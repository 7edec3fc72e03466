// Package errs defines the single typed error used across the sketch
// library: a Kind plus the operation that raised it and, where
// applicable, a wrapped cause.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure. Callers can test Kind with errors.Is against
// the package-level sentinels below, or extract the full *Error with
// errors.As to read Op and the wrapped cause.
type Kind int

const (
	// InvalidArgument marks a caller error: out-of-range width, a shrink
	// ratio that does not divide evenly, mismatched merge shapes, and
	// similar construction-time mistakes.
	InvalidArgument Kind = iota + 1
	// IOFailure marks a failed syscall: open, stat, truncate, read, write,
	// mmap.
	IOFailure
	// CorruptFile marks a header that fails validation: bad magic, or
	// sizes inconsistent with the file's actual length.
	CorruptFile
	// Unsupported marks a flag combination the current platform cannot
	// honor.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case IOFailure:
		return "io_failure"
	case CorruptFile:
		return "corrupt_file"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error lets a bare Kind serve as the target of errors.Is(err,
// errs.InvalidArgument), without constructing an *Error by hand.
func (k Kind) Error() string { return k.String() }

// Error is the single error type returned by this module.
type Error struct {
	Kind Kind
	Op   string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("madoka: %s: %s: %v", e.Op, e.Kind, e.err)
	}
	return fmt.Sprintf("madoka: %s: %s", e.Op, e.Kind)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.err }

// Is lets errors.Is(err, errs.InvalidArgument) work directly against a Kind
// value, without callers needing to construct a sentinel *Error.
func (e *Error) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.Kind == k
	}
	return false
}

// New constructs a located error of the given kind.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, err: errors.Errorf(format, args...)}
}

// Wrap attaches Kind and Op to an existing error, preserving it as the
// unwrap target.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, err: errors.WithStack(err)}
}
