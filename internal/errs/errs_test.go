package errs

import (
	"errors"
	"strings"
	"testing"
)

func TestNewIsKind(t *testing.T) {
	err := New(InvalidArgument, "Create", "width %d out of range", 0)
	if !errors.Is(err, InvalidArgument) {
		t.Fatalf("expected errors.Is to match InvalidArgument, got %v", err)
	}
	if errors.Is(err, IOFailure) {
		t.Fatalf("did not expect errors.Is to match IOFailure")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(IOFailure, "Save", cause)

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected errors.As to extract *Error")
	}
	if e.Op != "Save" || e.Kind != IOFailure {
		t.Fatalf("unexpected fields: %+v", e)
	}
	if !errors.Is(err, IOFailure) {
		t.Fatalf("expected errors.Is to match IOFailure")
	}
}

func TestErrorStringIncludesOpAndKind(t *testing.T) {
	err := New(CorruptFile, "Open", "bad magic")
	msg := err.Error()
	if !strings.Contains(msg, "Open") || !strings.Contains(msg, CorruptFile.String()) {
		t.Fatalf("expected error string to include op and kind, got %q", msg)
	}
}
