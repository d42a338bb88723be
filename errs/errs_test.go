package errs

import (
	"errors"
	"testing"
)

func TestInvalidArgumentIs(t *testing.T) {
	err := InvalidArgument("shape is nil")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Error("expected errors.Is match against ErrInvalidArgument")
	}
	if errors.Is(err, ErrInvalidState) {
		t.Error("did not expect match against ErrInvalidState")
	}
}

func TestInvalidStateIs(t *testing.T) {
	err := InvalidState("body id counter exhausted")
	if !errors.Is(err, ErrInvalidState) {
		t.Error("expected errors.Is match against ErrInvalidState")
	}
}

func TestWrapMessage(t *testing.T) {
	err := Wrap(ErrInvalidArgument, "bad value %d", 7)
	want := "invalid argument: bad value 7"
	if err.Error() != want {
		t.Errorf("got %q want %q", err.Error(), want)
	}
}
