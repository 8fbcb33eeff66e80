package http

import (
	"errors"
	"net/http"

	"inventory/internal/core"
	"inventory/internal/log"
	"inventory/internal/services"
)

// maxIssuesShown bounds the rejected-row list on the dashboard.
const maxIssuesShown = 20

type dashboardPage struct {
	services.Dashboard
	IssuesShown []core.RowIssue
	MoreIssues  int
}

// reportJSON is the payload consumed by the pie chart.
type reportJSON struct {
	Total          string    `json:"total"`
	TotalFormatted string    `json:"totalFormatted"`
	Labels         []string  `json:"labels"`
	Values         []float64 `json:"values"`
	Colors         []string  `json:"colors"`
	Records        int       `json:"records"`
	Source         string    `json:"source"`
	FileName       string    `json:"fileName,omitempty"`
	Rejected       int       `json:"rejected"`
	Generation     uint64    `json:"generation"`
}

// handleDashboard renders the total card, the chart and the rejected-row
// notice for the session's current load.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFrom(r.Context())
	if !ok {
		InternalServerError("session unavailable").Write(w)
		return
	}

	d, err := s.svc.Report(ws)
	if errors.Is(err, services.ErrNothingLoaded) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentReport).
			ErrorContext(r.Context(), "Report failed", log.FieldError, err)
		InternalServerError("failed to build report").Write(w)
		return
	}

	page := dashboardPage{Dashboard: d, IssuesShown: d.Issues}
	if len(d.Issues) > maxIssuesShown {
		page.IssuesShown = d.Issues[:maxIssuesShown]
		page.MoreIssues = len(d.Issues) - maxIssuesShown
	}
	w.Header().Set("Cache-Control", "no-store")
	s.render(w, r, http.StatusOK, "dashboard_page", page)
}

// handleReport returns the chart series and total as JSON.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFrom(r.Context())
	if !ok {
		JSONError(http.StatusInternalServerError, "session unavailable").Write(w)
		return
	}

	d, err := s.svc.Report(ws)
	if errors.Is(err, services.ErrNothingLoaded) {
		JSONError(http.StatusNotFound, err.Error()).Write(w)
		return
	}
	if err != nil {
		JSONError(http.StatusInternalServerError, "failed to build report").Write(w)
		return
	}

	NewResponse().
		Header("Cache-Control", "no-store").
		JSON(reportJSON{
			Total:          d.Total.StringFixed(2),
			TotalFormatted: d.TotalFormatted,
			Labels:         d.Series.Labels,
			Values:         d.Series.Floats(),
			Colors:         d.Series.Colors,
			Records:        d.Records,
			Source:         d.Source.String(),
			FileName:       d.FileName,
			Rejected:       len(d.Issues),
			Generation:     d.Generation,
		}).
		Write(w)
}
