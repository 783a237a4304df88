package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Unauthorized("nope"), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := c.err.HTTPStatus(); got != c.want {
			t.Errorf("%v: HTTPStatus = %d, want %d", c.err.Kind, got, c.want)
		}
	}
}

func TestAsRecognizesWrapped(t *testing.T) {
	inner := NotFound("campaign not found")
	wrapped := fmt.Errorf("handler: %w", inner)

	e := As(wrapped)
	if e.HTTPStatus() != http.StatusNotFound {
		t.Errorf("wrapped error lost its status: got %d", e.HTTPStatus())
	}
	if e.Message != "campaign not found" {
		t.Errorf("Message = %q", e.Message)
	}
}

func TestAsFallsBackToInternal(t *testing.T) {
	e := As(errors.New("database exploded"))
	if e.HTTPStatus() != http.StatusInternalServerError {
		t.Errorf("plain error should map to 500, got %d", e.HTTPStatus())
	}
}

func TestInternalHidesCause(t *testing.T) {
	e := Internal(errors.New("secret dsn"))
	if e.Message == "secret dsn" {
		t.Error("internal error message must not expose the cause")
	}
	if !errors.Is(e, e.Err) {
		t.Error("cause should still be unwrappable for logging")
	}
}
