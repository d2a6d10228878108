package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsCarryStatusAndCode(t *testing.T) {
	cases := []struct {
		err        *Error
		wantStatus int
		wantCode   string
	}{
		{NotFound("missing"), http.StatusNotFound, CodeNotFound},
		{Forbidden("nope"), http.StatusForbidden, CodeForbidden},
		{Conflict("dup"), http.StatusConflict, CodeConflict},
		{Unauthorized("who"), http.StatusUnauthorized, CodeUnauthorized},
		{Validation("bad"), http.StatusBadRequest, CodeValidation},
		{Internal("broken"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.err); got != tc.wantStatus {
			t.Fatalf("StatusOf(%s): want=%d got=%d", tc.wantCode, tc.wantStatus, got)
		}
		if got := CodeOf(tc.err); got != tc.wantCode {
			t.Fatalf("CodeOf: want=%s got=%s", tc.wantCode, got)
		}
	}
}

func TestPlainErrorsMapToInternal(t *testing.T) {
	err := errors.New("disk on fire")
	if got := StatusOf(err); got != http.StatusInternalServerError {
		t.Fatalf("StatusOf plain error: want=500 got=%d", got)
	}
	if got := CodeOf(err); got != CodeInternal {
		t.Fatalf("CodeOf plain error: want=%s got=%s", CodeInternal, got)
	}
}

func TestWrappedErrorStillMatches(t *testing.T) {
	inner := NotFound("supplement %s not found", "abc")
	wrapped := fmt.Errorf("while projecting: %w", inner)
	if got := StatusOf(wrapped); got != http.StatusNotFound {
		t.Fatalf("StatusOf wrapped: want=404 got=%d", got)
	}
	if !IsCode(wrapped, CodeNotFound) {
		t.Fatalf("expected wrapped error to keep code %s", CodeNotFound)
	}
}

func TestErrorMessageIncludesArgs(t *testing.T) {
	err := Conflict("supplement type %q already exists", "Vitamin")
	want := `supplement type "Vitamin" already exists`
	if err.Error() != want {
		t.Fatalf("Error(): want=%q got=%q", want, err.Error())
	}
}
