package assignmentlist

import (
	"github.com/shopspring/decimal"

	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/pkg/format"
)

// LoadState is the lifecycle of one fetch.
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateSuccess LoadState = "success"
	StateFailed  LoadState = "failed"
)

// Row is an assignment with its derived display flags.
type Row struct {
	models.Assignment
	Completed       bool   `json:"completed"`
	UnpaidCompleted bool   `json:"unpaid_completed"`
	StatusLabel     string `json:"status_label"`
	FeesDisplay     string `json:"fees_display"`
}

// SummaryView is the backend summary plus the derived paid count.
type SummaryView struct {
	Total           int `json:"total"`
	Pending         int `json:"pending"`
	Completed       int `json:"completed"`
	CompletedUnpaid int `json:"completed_unpaid"`
	CompletedPaid   int `json:"completed_paid"`
}

// PageTotals aggregates the fees of the visible page.
type PageTotals struct {
	Rows               int             `json:"rows"`
	Fees               decimal.Decimal `json:"fees"`
	Outstanding        decimal.Decimal `json:"outstanding"`
	FeesDisplay        string          `json:"fees_display"`
	OutstandingDisplay string          `json:"outstanding_display"`
}

// View is an immutable snapshot of a Module.
type View struct {
	ScopeLabel   string       `json:"scope_label"`
	Scope        Scope        `json:"scope"`
	Query        Query        `json:"query"`
	Compact      bool         `json:"compact"`
	Rows         []Row        `json:"rows"`
	HasMore      bool         `json:"has_more"`
	ListState    LoadState    `json:"list_state"`
	Error        string       `json:"error,omitempty"`
	Err          error        `json:"-"`
	Summary      *SummaryView `json:"summary"`
	SummaryState LoadState    `json:"summary_state"`
	Totals       PageTotals   `json:"totals"`
	Page         int          `json:"page"`
	CanPrev      bool         `json:"can_prev"`
	CanNext      bool         `json:"can_next"`
}

// Loading reports whether either fetch is in flight.
func (v View) Loading() bool {
	return v.ListState == StateLoading || v.SummaryState == StateLoading
}

// Assignments returns the raw assignments of the page.
func (v View) Assignments() []models.Assignment {
	out := make([]models.Assignment, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.Assignment
	}
	return out
}

func (m *Module) snapshot() View {
	v := View{
		ScopeLabel:   m.label,
		Scope:        Scope{BankID: copyInt(m.scope.BankID), BranchID: copyInt(m.scope.BranchID)},
		Query:        m.query,
		Compact:      m.compact,
		Rows:         make([]Row, 0, len(m.list.rows)),
		HasMore:      m.list.hasMore,
		ListState:    stateOrIdle(m.list.state),
		Err:          m.list.err,
		SummaryState: stateOrIdle(m.summary.state),
		Page:         m.query.Offset/m.query.PageSize + 1,
		CanPrev:      m.query.Offset > 0,
		CanNext:      m.list.hasMore,
	}
	if m.list.err != nil {
		v.Error = m.list.err.Error()
	}
	if s := m.summary.data; s != nil {
		v.Summary = &SummaryView{
			Total:           s.Total,
			Pending:         s.Pending,
			Completed:       s.Completed,
			CompletedUnpaid: s.CompletedUnpaid,
			CompletedPaid:   s.CompletedPaid(),
		}
	}

	fees := decimal.Zero
	outstanding := decimal.Zero
	for _, a := range m.list.rows {
		v.Rows = append(v.Rows, Row{
			Assignment:      a,
			Completed:       a.IsCompleted(),
			UnpaidCompleted: a.IsUnpaidCompleted(),
			StatusLabel:     format.Status(string(a.Status)),
			FeesDisplay:     format.INR(a.Fees),
		})
		fees = fees.Add(a.Fees)
		if a.IsUnpaidCompleted() {
			outstanding = outstanding.Add(a.Fees)
		}
	}
	v.Totals = PageTotals{
		Rows:               len(m.list.rows),
		Fees:               fees,
		Outstanding:        outstanding,
		FeesDisplay:        format.INR(fees),
		OutstandingDisplay: format.INR(outstanding),
	}
	return v
}

func stateOrIdle(s LoadState) LoadState {
	if s == "" {
		return StateIdle
	}
	return s
}
