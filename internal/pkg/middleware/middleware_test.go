package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rosterboard/internal/pkg/errors"
	"rosterboard/internal/pkg/logger"
)

func newTestLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Config{
		Level:  "debug",
		Format: "json",
		Output: buf,
	})
}

func TestRequestID(t *testing.T) {
	t.Run("generates request id", func(t *testing.T) {
		var captured string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = r.Context().Value(logger.RequestIDKey).(string)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		if captured == "" {
			t.Error("expected a request id in context")
		}
		if rec.Header().Get(RequestIDHeader) != captured {
			t.Error("expected request id echoed in response header")
		}
	})

	t.Run("preserves incoming request id", func(t *testing.T) {
		var captured string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = r.Context().Value(logger.RequestIDKey).(string)
		}))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "incoming-id")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if captured != "incoming-id" {
			t.Errorf("expected incoming-id, got %s", captured)
		}
	})
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	handler := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/renders", nil))

	out := buf.String()
	if !strings.Contains(out, "request completed") {
		t.Errorf("expected completion log, got: %s", out)
	}
	if !strings.Contains(out, `"status":418`) {
		t.Errorf("expected status in log, got: %s", out)
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	handler := Recovery(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("expected panic log, got: %s", buf.String())
	}
	if !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("expected error envelope, got: %s", rec.Body.String())
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        errors.NotFound("club", "missing"),
			wantStatus: 404,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "validation",
			err:        errors.Validation("bad payload"),
			wantStatus: 400,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "render failure",
			err:        errors.RenderFailed("engine crashed"),
			wantStatus: 500,
			wantCode:   "RENDER_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := newTestLogger(&buf)

			rec := httptest.NewRecorder()
			HandleError(rec, httptest.NewRequest("GET", "/", nil), log, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantCode) {
				t.Errorf("expected code %s in body, got: %s", tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestHandleErrorHidesInternalDetail(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	err := errors.Wrap(errors.RenderFailed("chrome exited with signal 9"), "render.engine", "render failed")

	rec := httptest.NewRecorder()
	HandleError(rec, httptest.NewRequest("GET", "/", nil), log, err)

	if strings.Contains(rec.Body.String(), "signal 9") {
		t.Errorf("internal detail leaked to response: %s", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "signal 9") {
		t.Errorf("expected internal detail in logs, got: %s", buf.String())
	}
}
