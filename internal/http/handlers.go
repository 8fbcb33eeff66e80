package http

import (
	"html/template"
	"net/http"
	"time"

	"inventory/internal/core"
)

var startedAt = time.Now()

var templateFuncs = template.FuncMap{
	"isDemo": func(src core.Source) bool { return src == core.SourceDemo },
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports whether templates and the session store are usable
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"templates": "ok", "sessions": "ok"}
	status, code := "ready", http.StatusOK

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	if s.sessions == nil || s.svc == nil {
		checks["sessions"] = "failed: not configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	NewResponse().Status(code).JSON(map[string]any{
		"status": status,
		"checks": checks,
	}).Write(w)
}
