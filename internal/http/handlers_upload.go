package http

import (
	"bytes"
	"errors"
	"net/http"

	"inventory/internal/log"
	"inventory/internal/sheets"
	"inventory/internal/workspace"
)

// User-visible messages of the upload view.
const (
	msgUnreadable = "The file could not be read as a spreadsheet."
	msgMalformed  = "The file contains a row whose value is missing or not a number."
	msgTooLarge   = "The file is too large."
	msgLoadFailed = "The file could not be loaded. Please try again."
)

type uploadPage struct {
	Error      string
	MaxUpload  int64
	HasReport  bool
	LastSource string
}

// handleIndex renders the upload view.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderUpload(w, r, http.StatusOK, "")
}

func (s *Server) renderUpload(w http.ResponseWriter, r *http.Request, status int, msg string) {
	page := uploadPage{Error: msg, MaxUpload: s.maxUpload}
	if ws, ok := workspaceFrom(r.Context()); ok {
		if snap, ok := ws.Snapshot(); ok {
			page.HasReport = true
			page.LastSource = snap.FileName
			if page.LastSource == "" {
				page.LastSource = "demo data"
			}
		}
	}
	s.render(w, r, status, "upload_page", page)
}

// handleAnalyze loads the uploaded file, or demo data when none is given,
// and redirects to the dashboard.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	ws, ok := workspaceFrom(ctx)
	if !ok {
		InternalServerError("session unavailable").Write(w)
		return
	}

	up, err := ParseUpload(w, r, s.maxUpload)
	switch {
	case errors.Is(err, ErrNoFile):
		_, err = s.svc.LoadDemo(ctx, ws)
	case errors.Is(err, ErrUploadTooLarge):
		logger.WarnContext(ctx, "Upload rejected", log.FieldError, err)
		s.renderUpload(w, r, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	case err != nil:
		logger.WarnContext(ctx, "Upload parse failed", log.FieldError, err)
		s.renderUpload(w, r, http.StatusBadRequest, msgLoadFailed)
		return
	default:
		_, err = s.svc.LoadFile(ctx, ws, up.Name, up.Data)
	}

	switch {
	case err == nil, errors.Is(err, workspace.ErrStaleLoad):
		// stale: a newer load of this session owns the dashboard
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	case errors.Is(err, sheets.ErrUnreadableFile):
		s.renderUpload(w, r, http.StatusUnprocessableEntity, msgUnreadable)
	case errors.Is(err, sheets.ErrMalformedRecord):
		s.renderUpload(w, r, http.StatusUnprocessableEntity, msgMalformed)
	default:
		logger.ErrorContext(ctx, "Load failed", log.FieldError, err)
		s.renderUpload(w, r, http.StatusInternalServerError, msgLoadFailed)
	}
}

// render executes a page template and writes it with status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		InternalServerError("templates not loaded").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).
			ErrorContext(r.Context(), "Template execution failed", "template", name, log.FieldError, err)
		InternalServerError("failed to render page").Write(w)
		return
	}
	NewResponse().Status(status).BodyHTML(buf.String()).Write(w)
}
