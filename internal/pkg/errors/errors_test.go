package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "invalid input")

	if err.Code != CodeValidation {
		t.Errorf("expected code=%s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "invalid input" {
		t.Errorf("expected message='invalid input', got %s", err.Message)
	}
	if len(err.Stack) == 0 {
		t.Error("expected stack trace to be captured")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "simple error",
			err:      New(CodeValidation, "invalid"),
			contains: []string{"VALIDATION_ERROR", "invalid"},
		},
		{
			name: "error with op",
			err: &Error{
				Code:    CodeRenderFailed,
				Message: "engine crashed",
				Op:      "render.engine",
			},
			contains: []string{"render.engine", "RENDER_FAILED", "engine crashed"},
		},
		{
			name: "error with underlying",
			err: &Error{
				Code:    CodeInternal,
				Message: "wrapper",
				Err:     fmt.Errorf("underlying error"),
			},
			contains: []string{"wrapper", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str := tt.err.Error()
			for _, c := range tt.contains {
				if !strings.Contains(str, c) {
					t.Errorf("expected error string to contain %q, got: %s", c, str)
				}
			}
		})
	}
}

func TestWrapPreservesCode(t *testing.T) {
	original := NotFound("club", "missing")
	wrapped := Wrap(original, "render.lookup", "club lookup failed")

	if wrapped.Code != CodeNotFound {
		t.Errorf("expected wrapped error to keep code NOT_FOUND, got %s", wrapped.Code)
	}
	if !errors.Is(wrapped, original) {
		t.Error("expected errors.Is to match the wrapped error")
	}
	if !IsNotFound(wrapped) {
		t.Error("expected IsNotFound on wrapped error")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "op", "msg") != nil {
		t.Error("expected Wrap(nil) to return nil")
	}
	if WrapWithCode(nil, CodeTimeout, "op", "msg") != nil {
		t.Error("expected WrapWithCode(nil) to return nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, 400},
		{CodeBadRequest, 400},
		{CodeNotFound, 404},
		{CodeTimeout, 504},
		{CodeUnavailable, 503},
		{CodeRenderFailed, 500},
		{CodeInternal, 500},
	}

	for _, tt := range tests {
		if got := New(tt.code, "x").HTTPStatus(); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestGetCodeForeignError(t *testing.T) {
	if got := GetCode(fmt.Errorf("plain")); got != CodeInternal {
		t.Errorf("expected foreign error to map to INTERNAL_ERROR, got %s", got)
	}
}

func TestPredicates(t *testing.T) {
	if !IsTimeout(Timeout("render")) {
		t.Error("expected IsTimeout")
	}
	if !IsUnavailable(Unavailable("redis")) {
		t.Error("expected IsUnavailable")
	}
	if !IsValidation(Validationf("bad %s", "payload")) {
		t.Error("expected IsValidation")
	}
	if IsNotFound(RenderFailed("boom")) {
		t.Error("did not expect IsNotFound for render failure")
	}
}
