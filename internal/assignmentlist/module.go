// Package assignmentlist keeps the filter, sort and paging state of one
// assignments table and fetches its rows and scope summary from the backend.
//
// Each fetch runs in its own goroutine and is stamped with a generation number.
// A response is applied only when no later fetch of the same kind was issued,
// so the visible rows always match the most recent request regardless of
// arrival order, even when two requests share the same query.
package assignmentlist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/pkg/apiclient"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

// ErrClosed is returned by operations on a closed module.
var ErrClosed = appErrors.New("LIST_CLOSED", http.StatusGone, "assignment list closed")

// Requester issues backend requests; apiclient.Client satisfies it.
type Requester interface {
	Do(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error)
}

// RequesterFunc adapts a function to Requester.
type RequesterFunc func(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error)

// Do calls f.
func (f RequesterFunc) Do(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error) {
	return f(ctx, method, path, body, header)
}

// Config configures a Module.
type Config struct {
	ScopeLabel string
	BankID     *int
	BranchID   *int
	Requester  Requester
	OnOpen     func(id int)
	PageSize   int
	Compact    bool
	OnChange   func(View)
	Logger     *zap.Logger
}

// Module is one assignments table bound to a scope.
type Module struct {
	requester Requester
	onOpen    func(int)
	onChange  func(View)
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	label    string
	scope    Scope
	query    Query
	compact  bool
	loaded   bool
	closed   bool
	list     listState
	summary  summaryState
	gen      uint64
	inflight int
	idle     chan struct{}
}

type listState struct {
	gen     uint64
	state   LoadState
	rows    []models.Assignment
	hasMore bool
	err     error
}

type summaryState struct {
	gen   uint64
	state LoadState
	data  *models.AssignmentSummary
}

// New builds a module. Nothing is fetched until Load.
func New(cfg Config) *Module {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)
	return &Module{
		requester: cfg.Requester,
		onOpen:    cfg.OnOpen,
		onChange:  cfg.OnChange,
		logger:    logger.With(zap.String("scope", cfg.ScopeLabel)),
		ctx:       ctx,
		cancel:    cancel,
		label:     cfg.ScopeLabel,
		scope:     Scope{BankID: copyInt(cfg.BankID), BranchID: copyInt(cfg.BranchID)},
		query:     DefaultQuery(cfg.PageSize),
		compact:   cfg.Compact,
		idle:      idle,
	}
}

// Load issues the initial list and summary fetches.
func (m *Module) Load() error {
	return m.update(func() (bool, bool, error) {
		m.loaded = true
		return true, true, nil
	})
}

// Refresh re-issues both fetches with the current state.
func (m *Module) Refresh() error {
	return m.Load()
}

// SetCreatedFrom sets the lower created-date bound; empty clears it.
func (m *Module) SetCreatedFrom(date string) error {
	parsed, err := ParseDate(date)
	if err != nil {
		return err
	}
	return m.update(func() (bool, bool, error) {
		if m.query.CreatedFrom == parsed {
			return false, false, nil
		}
		m.query.CreatedFrom = parsed
		m.query.Offset = 0
		return true, true, nil
	})
}

// SetCreatedTo sets the upper created-date bound; empty clears it.
func (m *Module) SetCreatedTo(date string) error {
	parsed, err := ParseDate(date)
	if err != nil {
		return err
	}
	return m.update(func() (bool, bool, error) {
		if m.query.CreatedTo == parsed {
			return false, false, nil
		}
		m.query.CreatedTo = parsed
		m.query.Offset = 0
		return true, true, nil
	})
}

// SetCompletion changes the completion filter.
func (m *Module) SetCompletion(c Completion) error {
	if _, err := ParseCompletion(string(c)); err != nil {
		return err
	}
	return m.update(func() (bool, bool, error) {
		if m.query.Completion == c {
			return false, false, nil
		}
		m.query.Completion = c
		m.query.Offset = 0
		return true, false, nil
	})
}

// SetPayment changes the payment filter.
func (m *Module) SetPayment(p Payment) error {
	if _, err := ParsePayment(string(p)); err != nil {
		return err
	}
	return m.update(func() (bool, bool, error) {
		if m.query.Payment == p {
			return false, false, nil
		}
		m.query.Payment = p
		m.query.Offset = 0
		return true, false, nil
	})
}

// ToggleSort flips the direction of the active key, or activates key ascending.
func (m *Module) ToggleSort(key string) error {
	if !IsSortKey(key) {
		return appErrors.Clone(appErrors.ErrValidation, "unsupported sort key "+key)
	}
	return m.update(func() (bool, bool, error) {
		if m.query.SortBy == key {
			if m.query.SortDir == SortAsc {
				m.query.SortDir = SortDesc
			} else {
				m.query.SortDir = SortAsc
			}
		} else {
			m.query.SortBy = key
			m.query.SortDir = SortAsc
		}
		m.query.Offset = 0
		return true, false, nil
	})
}

// SetPageSize changes the page size and returns to the first page.
func (m *Module) SetPageSize(size int) error {
	if size <= 0 || size > MaxPageSize {
		return appErrors.Clone(appErrors.ErrValidation, "page size must be between 1 and 500")
	}
	return m.update(func() (bool, bool, error) {
		if m.query.PageSize == size {
			return false, false, nil
		}
		m.query.PageSize = size
		m.query.Offset = 0
		return true, false, nil
	})
}

// NextPage advances one page when the current page was full.
func (m *Module) NextPage() error {
	return m.update(func() (bool, bool, error) {
		if !m.list.hasMore {
			return false, false, nil
		}
		m.query.Offset += m.query.PageSize
		return true, false, nil
	})
}

// PrevPage goes back one page, stopping at the first.
func (m *Module) PrevPage() error {
	return m.update(func() (bool, bool, error) {
		if m.query.Offset == 0 {
			return false, false, nil
		}
		m.query.Offset -= m.query.PageSize
		if m.query.Offset < 0 {
			m.query.Offset = 0
		}
		return true, false, nil
	})
}

// SetScope rebinds the module to another bank or branch and returns to the first page.
func (m *Module) SetScope(label string, scope Scope) error {
	scope = Scope{BankID: copyInt(scope.BankID), BranchID: copyInt(scope.BranchID)}
	return m.update(func() (bool, bool, error) {
		if label != "" {
			m.label = label
		}
		if m.scope.Equal(scope) {
			return false, false, nil
		}
		m.scope = scope
		m.query.Offset = 0
		return true, true, nil
	})
}

// SetCompact switches between the compact and expanded table.
func (m *Module) SetCompact(compact bool) {
	m.mu.Lock()
	m.compact = compact
	m.mu.Unlock()
	m.notify()
}

// Open forwards a row selection to the configured callback.
func (m *Module) Open(id int) {
	if m.onOpen != nil {
		m.onOpen(id)
	}
}

// View returns a snapshot of the current state.
func (m *Module) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Wait blocks until no fetch is in flight or ctx is done.
func (m *Module) Wait(ctx context.Context) error {
	m.mu.Lock()
	idle := m.idle
	m.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels in-flight fetches; later responses are dropped.
func (m *Module) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cancel()
}

// update applies mutate under the lock and issues the fetches it asks for.
// Fetches are only issued once the module has been loaded.
func (m *Module) update(mutate func() (list, summary bool, err error)) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	refetchList, refetchSummary, err := mutate()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if !m.loaded {
		m.mu.Unlock()
		if refetchList || refetchSummary {
			m.notify()
		}
		return nil
	}
	if refetchList {
		m.issueListLocked()
	}
	if refetchSummary {
		m.issueSummaryLocked()
	}
	m.mu.Unlock()

	if refetchList || refetchSummary {
		m.notify()
	}
	return nil
}

func (m *Module) issueListLocked() {
	m.gen++
	path := ListPath(m.scope, m.query)
	m.list.gen = m.gen
	m.list.state = StateLoading
	m.list.err = nil
	m.startLocked()
	go m.fetchList(m.gen, path, m.query.PageSize)
}

func (m *Module) issueSummaryLocked() {
	m.gen++
	path := SummaryPath(m.scope, m.query)
	m.summary.gen = m.gen
	m.summary.state = StateLoading
	m.startLocked()
	go m.fetchSummary(m.gen, path)
}

func (m *Module) startLocked() {
	if m.inflight == 0 {
		m.idle = make(chan struct{})
	}
	m.inflight++
}

func (m *Module) doneLocked() {
	m.inflight--
	if m.inflight == 0 {
		close(m.idle)
	}
}

func (m *Module) fetchList(gen uint64, path string, pageSize int) {
	rows, err := m.getRows(path)

	m.mu.Lock()
	applied := false
	if !m.closed && m.list.gen == gen {
		applied = true
		if err != nil {
			m.list.state = StateFailed
			m.list.err = err
			m.list.rows = nil
			m.list.hasMore = false
		} else {
			m.list.state = StateSuccess
			m.list.err = nil
			m.list.rows = rows
			m.list.hasMore = len(rows) == pageSize
		}
	}
	m.doneLocked()
	m.mu.Unlock()

	if !applied {
		m.logger.Debug("discarded stale list response", zap.String("path", path), zap.Uint64("generation", gen))
		return
	}
	if err != nil {
		m.logger.Warn("list assignments failed", zap.String("path", path), zap.Error(err))
	}
	m.notify()
}

func (m *Module) fetchSummary(gen uint64, path string) {
	summary, err := m.getSummary(path)

	m.mu.Lock()
	applied := false
	if !m.closed && m.summary.gen == gen {
		applied = true
		if err != nil {
			m.summary.state = StateFailed
			m.summary.data = nil
		} else {
			m.summary.state = StateSuccess
			m.summary.data = summary
		}
	}
	m.doneLocked()
	m.mu.Unlock()

	if !applied {
		return
	}
	if err != nil {
		m.logger.Debug("assignment summary unavailable", zap.String("path", path), zap.Error(err))
	}
	m.notify()
}

func (m *Module) getRows(path string) ([]models.Assignment, error) {
	if m.requester == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "no requester configured")
	}
	resp, err := m.requester.Do(m.ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, appErrors.Upstream(resp.StatusCode, apiclient.ErrorText(resp))
	}
	var rows []models.Assignment
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to decode assignments")
	}
	if rows == nil {
		rows = []models.Assignment{}
	}
	return rows, nil
}

func (m *Module) getSummary(path string) (*models.AssignmentSummary, error) {
	if m.requester == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "no requester configured")
	}
	resp, err := m.requester.Do(m.ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, appErrors.Upstream(resp.StatusCode, "")
	}
	var summary models.AssignmentSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (m *Module) notify() {
	if m.onChange == nil {
		return
	}
	m.onChange(m.View())
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
