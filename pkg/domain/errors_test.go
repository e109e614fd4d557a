package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindSurvivesWrapping(t *testing.T) {
	inner := New(KindUnsupportedOnBackend, "query not available on sugarCRM")
	wrapped := fmt.Errorf("find accounts: %w", inner)

	if !IsKind(wrapped, KindUnsupportedOnBackend) {
		t.Errorf("kind lost through %%w wrapping: got %v", KindOf(wrapped))
	}
	if IsKind(wrapped, KindHandlerFailure) {
		t.Error("IsKind matched the wrong kind")
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("socket closed")
	err := Wrap(KindActionFailure, "runner failed", base).WithOp("trigger")

	want := "trigger: runner failed: socket closed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, base) {
		t.Error("Unwrap chain does not reach the base error")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want unknown", got)
	}
	if KindOf(nil) != KindUnknown {
		t.Error("KindOf(nil) should be unknown")
	}
}

func TestKindString(t *testing.T) {
	if KindHandlerFailure.String() != "handler_failure" {
		t.Errorf("KindHandlerFailure.String() = %q", KindHandlerFailure.String())
	}
	if Kind(999).String() != "kind(999)" {
		t.Errorf("unnamed kind = %q", Kind(999).String())
	}
}
