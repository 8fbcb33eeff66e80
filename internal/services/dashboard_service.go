// Package services coordinates loading record sets into session workspaces
// and building the dashboard view from them.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"inventory/internal/core"
	"inventory/internal/log"
	"inventory/internal/metrics"
	"inventory/internal/report"
	"inventory/internal/sheets"
	"inventory/internal/workspace"
)

// ErrNothingLoaded is returned by Report before the first committed load.
var ErrNothingLoaded = errors.New("no inventory loaded")

// UncategorizedLabel is shown for records without a category.
const UncategorizedLabel = "Uncategorized"

// Dashboard is the view model of one loaded record set.
type Dashboard struct {
	Source         core.Source
	FileName       string
	Records        int
	Total          decimal.Decimal
	TotalFormatted string
	Series         report.Series
	Legend         []LegendEntry
	Issues         []core.RowIssue
	Policy         core.MalformedPolicy
	LoadedAt       time.Time
	Generation     uint64
}

// LegendEntry is one pie slice as displayed next to the chart.
type LegendEntry struct {
	Label  string
	Amount string
	Color  string
}

// DashboardService orchestrates loads into workspaces and reports on them
type DashboardService struct {
	loader    *FileLoader
	demo      sheets.RecordSource
	formatter *report.Formatter
	metrics   metrics.Recorder
	logger    *log.Logger
}

// NewDashboardService wires the collaborators. Nil formatter, metrics and
// logger fall back to defaults.
func NewDashboardService(loader *FileLoader, demo sheets.RecordSource, formatter *report.Formatter, rec metrics.Recorder, logger *log.Logger) *DashboardService {
	if formatter == nil {
		formatter = report.DefaultFormatter()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &DashboardService{
		loader:    loader,
		demo:      demo,
		formatter: formatter,
		metrics:   rec,
		logger:    logger.WithComponent(log.ComponentLoader),
	}
}

// Formatter returns the currency formatter used for reports.
func (s *DashboardService) Formatter() *report.Formatter {
	return s.formatter
}

// LoadFile loads an uploaded file into ws. On any error the previously
// committed snapshot is left untouched.
func (s *DashboardService) LoadFile(ctx context.Context, ws *workspace.Workspace, name string, data []byte) (workspace.Snapshot, error) {
	start := time.Now()
	ticket := ws.Begin()
	policy := s.loader.Policy()

	var res LoadResult
	select {
	case res = <-s.loader.LoadAsync(ctx, name, data):
	case <-ctx.Done():
		s.metrics.LoadCompleted(core.SourceFile.String(), metrics.StatusError, time.Since(start))
		return workspace.Snapshot{}, ctx.Err()
	}

	if res.Err != nil {
		status := metrics.StatusError
		switch {
		case errors.Is(res.Err, sheets.ErrUnreadableFile):
			status = metrics.StatusUnreadable
		case errors.Is(res.Err, sheets.ErrMalformedRecord):
			status = metrics.StatusMalformed
		}
		s.metrics.LoadCompleted(core.SourceFile.String(), status, time.Since(start))
		s.logger.WarnContext(ctx, "File load failed", log.NewFields().
			WithFile(name, len(data)).
			WithOperation(log.OpLoad).
			WithGeneration(ticket.Generation()).
			WithError(res.Err).
			ToSlice()...)
		return workspace.Snapshot{}, fmt.Errorf("load %q: %w", name, res.Err)
	}

	snap, err := s.commit(ctx, ws, ticket, workspace.Snapshot{
		Records:  res.Records,
		Source:   core.SourceFile,
		FileName: name,
		Issues:   res.Issues,
	}, start)
	if err != nil {
		return workspace.Snapshot{}, err
	}

	s.metrics.RowsRejected(policy.String(), len(res.Issues))
	s.logger.InfoContext(ctx, "File loaded", log.NewFields().
		WithFile(name, len(data)).
		WithLoad(core.SourceFile.String(), snap.Records.Len(), len(res.Issues), policy.String()).
		WithGeneration(snap.Generation).
		ToSlice()...)
	return snap, nil
}

// LoadDemo loads the demo record set into ws.
func (s *DashboardService) LoadDemo(ctx context.Context, ws *workspace.Workspace) (workspace.Snapshot, error) {
	start := time.Now()
	ticket := ws.Begin()

	records, err := s.demo.Records(ctx)
	if err != nil {
		s.metrics.LoadCompleted(core.SourceDemo.String(), metrics.StatusError, time.Since(start))
		return workspace.Snapshot{}, fmt.Errorf("load demo records: %w", err)
	}

	snap, err := s.commit(ctx, ws, ticket, workspace.Snapshot{
		Records: records,
		Source:  core.SourceDemo,
	}, start)
	if err != nil {
		return workspace.Snapshot{}, err
	}

	s.logger.InfoContext(ctx, "Demo data loaded", log.NewFields().
		WithLoad(core.SourceDemo.String(), snap.Records.Len(), 0, s.loader.Policy().String()).
		WithGeneration(snap.Generation).
		ToSlice()...)
	return snap, nil
}

func (s *DashboardService) commit(ctx context.Context, ws *workspace.Workspace, t workspace.Ticket, snap workspace.Snapshot, start time.Time) (workspace.Snapshot, error) {
	source := snap.Source.String()
	committed, err := ws.Commit(t, snap)
	if errors.Is(err, workspace.ErrStaleLoad) {
		s.metrics.StaleLoad()
		s.metrics.LoadCompleted(source, metrics.StatusStale, time.Since(start))
		s.logger.InfoContext(ctx, "Discarding superseded load", log.NewFields().
			WithOperation(log.OpCommit).
			WithGeneration(t.Generation()).
			ToSlice()...)
		return workspace.Snapshot{}, err
	}
	if err != nil {
		s.metrics.LoadCompleted(source, metrics.StatusError, time.Since(start))
		return workspace.Snapshot{}, fmt.Errorf("commit load: %w", err)
	}
	s.metrics.LoadCompleted(source, metrics.StatusSuccess, time.Since(start))
	return committed, nil
}

// Report builds the dashboard for the last snapshot committed to ws.
func (s *DashboardService) Report(ws *workspace.Workspace) (Dashboard, error) {
	snap, ok := ws.Snapshot()
	if !ok {
		return Dashboard{}, ErrNothingLoaded
	}
	sum := report.Summarize(snap.Records, s.formatter)

	legend := make([]LegendEntry, 0, sum.Series.Len())
	for i, label := range sum.Series.Labels {
		if label == "" {
			label = UncategorizedLabel
		}
		legend = append(legend, LegendEntry{
			Label:  label,
			Amount: s.formatter.Format(sum.Series.Values[i]),
			Color:  sum.Series.Colors[i],
		})
	}

	return Dashboard{
		Source:         snap.Source,
		FileName:       snap.FileName,
		Records:        sum.Records,
		Total:          sum.Total,
		TotalFormatted: sum.FormattedTotal,
		Series:         sum.Series,
		Legend:         legend,
		Issues:         snap.Issues,
		Policy:         s.loader.Policy(),
		LoadedAt:       snap.LoadedAt,
		Generation:     snap.Generation,
	}, nil
}
