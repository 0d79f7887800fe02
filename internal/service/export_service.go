package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/assignmentlist"
	"github.com/zenops/zen-ops-console/pkg/export"
	"github.com/zenops/zen-ops-console/pkg/format"
)

// ExportFile is a rendered export ready to be sent or written.
type ExportFile struct {
	Filename    string
	ContentType string
	Format      export.Format
	Data        []byte
}

// ExportService renders the visible page of an assignments table.
type ExportService struct {
	renderers map[export.Format]export.Renderer
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. A nil renderer map uses every built-in format.
func NewExportService(renderers map[export.Format]export.Renderer, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if renderers == nil {
		renderers = export.Renderers()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{renderers: renderers, metrics: metrics, logger: logger, now: time.Now}
}

// Export renders view in the requested format ("csv" when empty).
func (s *ExportService) Export(view assignmentlist.View, rawFormat string) (*ExportFile, error) {
	f, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, err
	}
	renderer, ok := s.renderers[f]
	if !ok {
		return nil, fmt.Errorf("no renderer for %s", f)
	}

	data, err := renderer.Render(AssignmentDataset(view))
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", f, err)
	}
	s.metrics.RecordExport(string(f))
	s.logger.Debug("assignments exported", zap.String("format", string(f)), zap.Int("rows", len(view.Rows)))

	return &ExportFile{
		Filename:    s.filename(view, f),
		ContentType: f.ContentType(),
		Format:      f,
		Data:        data,
	}, nil
}

// AssignmentDataset tabulates the rows of view. Compact views drop the wide columns.
func AssignmentDataset(view assignmentlist.View) export.Dataset {
	title := fmt.Sprintf("%s, page %d", view.ScopeLabel, view.Page)
	if view.Compact {
		ds := export.Dataset{Title: title, Headers: []string{"Code", "Borrower", "Status", "Fees"}}
		for _, r := range view.Rows {
			ds.Rows = append(ds.Rows, []string{code(r), r.DisplayName(), r.StatusLabel, r.FeesDisplay})
		}
		ds.Footer = []string{"Total", strconv.Itoa(view.Totals.Rows) + " rows", "", view.Totals.FeesDisplay}
		return ds
	}

	ds := export.Dataset{
		Title:   title,
		Headers: []string{"Code", "Created", "Case", "Bank / Client", "Branch", "Borrower", "Status", "Fees", "Paid"},
	}
	for _, r := range view.Rows {
		ds.Rows = append(ds.Rows, []string{
			code(r),
			r.CreatedAt.Date(),
			format.Status(string(r.CaseType)),
			r.Counterparty(),
			format.Or(r.BranchName, ""),
			r.DisplayName(),
			r.StatusLabel,
			r.FeesDisplay,
			format.Paid(r.IsPaid),
		})
	}
	ds.Footer = []string{"Total", "", "", "", "", strconv.Itoa(view.Totals.Rows) + " rows", "Outstanding " + view.Totals.OutstandingDisplay, view.Totals.FeesDisplay, ""}
	return ds
}

func code(r assignmentlist.Row) string {
	if r.AssignmentCode != "" {
		return r.AssignmentCode
	}
	return "#" + strconv.Itoa(r.ID)
}

func (s *ExportService) filename(view assignmentlist.View, f export.Format) string {
	slug := "all"
	switch {
	case view.Scope.BranchID != nil:
		slug = "branch-" + strconv.Itoa(*view.Scope.BranchID)
	case view.Scope.BankID != nil:
		slug = "bank-" + strconv.Itoa(*view.Scope.BankID)
	}
	stamp := s.now().Format("20060102")
	return strings.Join([]string{"assignments", slug, stamp, "p" + strconv.Itoa(view.Page)}, "-") + "." + f.Extension()
}
