package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusAccepted).
		Header("X-Custom", "v").
		BodyString("test").
		Write(w)

	if w.Code != http.StatusAccepted {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusAccepted)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
	if w.Header().Get("X-Custom") != "v" {
		t.Errorf("custom header not set")
	}
}

func TestResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().JSON(map[string]int{"records": 5}).Write(w)

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"records":5}` {
		t.Errorf("Body = %q", got)
	}
}

func TestResponseBuilder_JSONEncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().JSON(func() {}).Write(w)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want 500", w.Code)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ResponseBuilder
		wantCode int
	}{
		{"unprocessable", UnprocessableEntityError("bad <file>"), http.StatusUnprocessableEntity},
		{"too large", RequestTooLargeError("big"), http.StatusRequestEntityTooLarge},
		{"rate limited", TooManyRequestsError("slow down"), http.StatusTooManyRequests},
		{"internal", InternalServerError("oops"), http.StatusInternalServerError},
		{"not found", NotFoundError("gone"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.wantCode {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantCode)
			}
			if !strings.Contains(w.Body.String(), `class="error"`) {
				t.Errorf("Body missing error class: %s", w.Body.String())
			}
			if strings.Contains(w.Body.String(), "<file>") {
				t.Errorf("message not escaped: %s", w.Body.String())
			}
		})
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(http.StatusNotFound, "no inventory loaded").Write(w)
	if w.Code != http.StatusNotFound {
		t.Errorf("Status code = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error":"no inventory loaded"`) {
		t.Errorf("Body = %s", w.Body.String())
	}
}
