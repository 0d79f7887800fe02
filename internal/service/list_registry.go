package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/assignmentlist"
	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/pkg/apiclient"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

// ListScopeKind names which assignments table a console page shows.
type ListScopeKind string

const (
	ListScopeAll    ListScopeKind = "all"
	ListScopeBank   ListScopeKind = "bank"
	ListScopeBranch ListScopeKind = "branch"
)

// ListScope identifies one table: all assignments, one bank or one branch.
type ListScope struct {
	Kind ListScopeKind
	ID   int
}

// ParseListScope validates a scope taken from a URL.
func ParseListScope(kind, id string) (ListScope, error) {
	switch ListScopeKind(strings.ToLower(strings.TrimSpace(kind))) {
	case ListScopeAll, "":
		return ListScope{Kind: ListScopeAll}, nil
	case ListScopeBank:
		return parseScopedID(ListScopeBank, id)
	case ListScopeBranch:
		return parseScopedID(ListScopeBranch, id)
	default:
		return ListScope{}, appErrors.Clone(appErrors.ErrValidation, "unknown list scope "+kind)
	}
}

func parseScopedID(kind ListScopeKind, raw string) (ListScope, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return ListScope{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s id", kind))
	}
	return ListScope{Kind: kind, ID: id}, nil
}

// Key is the stable identifier of the scope.
func (s ListScope) Key() string {
	if s.Kind == ListScopeAll || s.Kind == "" {
		return string(ListScopeAll)
	}
	return fmt.Sprintf("%s:%d", s.Kind, s.ID)
}

// Label is the heading shown above the table.
func (s ListScope) Label() string {
	switch s.Kind {
	case ListScopeBank:
		return fmt.Sprintf("Bank #%d", s.ID)
	case ListScopeBranch:
		return fmt.Sprintf("Branch #%d", s.ID)
	default:
		return "All assignments"
	}
}

// Scope converts to the list module's query scope.
func (s ListScope) Scope() assignmentlist.Scope {
	id := s.ID
	switch s.Kind {
	case ListScopeBank:
		return assignmentlist.Scope{BankID: &id}
	case ListScopeBranch:
		return assignmentlist.Scope{BranchID: &id}
	default:
		return assignmentlist.Scope{}
	}
}

// RequesterFactory binds a backend requester to one console session.
type RequesterFactory func(sessions apiclient.SessionSource) assignmentlist.Requester

// ListRegistryConfig tunes the registry.
type ListRegistryConfig struct {
	PageSize int
	IdleTTL  time.Duration
	Wait     time.Duration
}

type listEntry struct {
	sid      string
	module   *assignmentlist.Module
	lastUsed time.Time
}

// ListRegistry keeps one list module per console session and scope so paging
// and filter state survive between requests.
type ListRegistry struct {
	factory RequesterFactory
	cfg     ListRegistryConfig
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*listEntry
}

// NewListRegistry constructs a registry.
func NewListRegistry(factory RequesterFactory, cfg ListRegistryConfig, metrics *MetricsService, logger *zap.Logger) *ListRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.Wait <= 0 {
		cfg.Wait = 5 * time.Second
	}
	return &ListRegistry{
		factory: factory,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*listEntry),
	}
}

func entryKey(sid string, scope ListScope) string {
	return sid + "|" + scope.Key()
}

// Module returns the module for sid and scope, creating and loading it on first use.
func (r *ListRegistry) Module(ctx context.Context, sid string, scope ListScope) (*assignmentlist.Module, error) {
	if strings.TrimSpace(sid) == "" {
		return nil, appErrors.ErrUnauthorized
	}
	store, err := storeFrom(ctx)
	if err != nil {
		return nil, err
	}

	key := entryKey(sid, scope)
	r.mu.Lock()
	if entry, ok := r.entries[key]; ok {
		entry.lastUsed = r.now()
		r.mu.Unlock()
		return entry.module, nil
	}

	bound := scope.Scope()
	module := assignmentlist.New(assignmentlist.Config{
		ScopeLabel: scope.Label(),
		BankID:     bound.BankID,
		BranchID:   bound.BranchID,
		Requester:  r.factory(store),
		PageSize:   r.cfg.PageSize,
		Logger:     r.logger,
	})
	r.entries[key] = &listEntry{sid: sid, module: module, lastUsed: r.now()}
	count := len(r.entries)
	r.mu.Unlock()

	r.metrics.SetOpenLists(count)
	if err := module.Load(); err != nil {
		return nil, err
	}
	return module, nil
}

// Snapshot returns the view of a table, waiting up to wait for fetches to settle.
func (r *ListRegistry) Snapshot(ctx context.Context, sid string, scope ListScope, wait time.Duration) (assignmentlist.View, error) {
	module, err := r.Module(ctx, sid, scope)
	if err != nil {
		return assignmentlist.View{}, err
	}
	return r.settle(ctx, module, wait), nil
}

// Apply performs one table interaction and returns the resulting view.
func (r *ListRegistry) Apply(ctx context.Context, sid string, scope ListScope, action dto.ListActionRequest) (assignmentlist.View, error) {
	module, err := r.Module(ctx, sid, scope)
	if err != nil {
		return assignmentlist.View{}, err
	}
	if err := applyAction(module, action); err != nil {
		return assignmentlist.View{}, err
	}
	return r.settle(ctx, module, r.cfg.Wait), nil
}

func applyAction(module *assignmentlist.Module, action dto.ListActionRequest) error {
	switch action.Action {
	case dto.ActionSort:
		return module.ToggleSort(action.SortBy)
	case dto.ActionNext:
		return module.NextPage()
	case dto.ActionPrev:
		return module.PrevPage()
	case dto.ActionPageSize:
		return module.SetPageSize(action.PageSize)
	case dto.ActionRefresh:
		return module.Refresh()
	case dto.ActionCompact:
		compact := action.Compact != nil && *action.Compact
		module.SetCompact(compact)
		return nil
	case dto.ActionFilters:
		return applyFilters(module, action)
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown list action "+string(action.Action))
	}
}

func applyFilters(module *assignmentlist.Module, action dto.ListActionRequest) error {
	var completion assignmentlist.Completion
	var payment assignmentlist.Payment
	var err error
	if action.CreatedFrom != nil {
		if _, err = assignmentlist.ParseDate(*action.CreatedFrom); err != nil {
			return err
		}
	}
	if action.CreatedTo != nil {
		if _, err = assignmentlist.ParseDate(*action.CreatedTo); err != nil {
			return err
		}
	}
	if action.Completion != nil {
		if completion, err = assignmentlist.ParseCompletion(*action.Completion); err != nil {
			return err
		}
	}
	if action.Payment != nil {
		if payment, err = assignmentlist.ParsePayment(*action.Payment); err != nil {
			return err
		}
	}

	if action.CreatedFrom != nil {
		if err := module.SetCreatedFrom(*action.CreatedFrom); err != nil {
			return err
		}
	}
	if action.CreatedTo != nil {
		if err := module.SetCreatedTo(*action.CreatedTo); err != nil {
			return err
		}
	}
	if action.Completion != nil {
		if err := module.SetCompletion(completion); err != nil {
			return err
		}
	}
	if action.Payment != nil {
		if err := module.SetPayment(payment); err != nil {
			return err
		}
	}
	return nil
}

func (r *ListRegistry) settle(ctx context.Context, module *assignmentlist.Module, wait time.Duration) assignmentlist.View {
	if wait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()
		if err := module.Wait(waitCtx); err != nil {
			r.logger.Debug("list still loading", zap.Error(err))
		}
	}
	return module.View()
}

// Drop closes every module of sid and returns how many were closed.
func (r *ListRegistry) Drop(sid string) int {
	r.mu.Lock()
	var closed []*assignmentlist.Module
	for key, entry := range r.entries {
		if entry.sid == sid {
			closed = append(closed, entry.module)
			delete(r.entries, key)
		}
	}
	count := len(r.entries)
	r.mu.Unlock()

	for _, m := range closed {
		m.Close()
	}
	if len(closed) > 0 {
		r.metrics.SetOpenLists(count)
		r.logger.Debug("list modules dropped", zap.String("sid", sid), zap.Int("count", len(closed)))
	}
	return len(closed)
}

// Sweep closes modules unused for longer than the idle TTL and returns the
// sessions that no longer hold any module.
func (r *ListRegistry) Sweep() []string {
	cutoff := r.now().Add(-r.cfg.IdleTTL)
	r.mu.Lock()
	var closed []*assignmentlist.Module
	touched := map[string]struct{}{}
	for key, entry := range r.entries {
		if entry.lastUsed.Before(cutoff) {
			closed = append(closed, entry.module)
			touched[entry.sid] = struct{}{}
			delete(r.entries, key)
		}
	}
	for _, entry := range r.entries {
		delete(touched, entry.sid)
	}
	count := len(r.entries)
	r.mu.Unlock()

	for _, m := range closed {
		m.Close()
	}
	r.metrics.SetOpenLists(count)

	idle := make([]string, 0, len(touched))
	for sid := range touched {
		idle = append(idle, sid)
	}
	return idle
}

// Len reports how many modules are held.
func (r *ListRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close closes every module.
func (r *ListRegistry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*listEntry)
	r.mu.Unlock()
	for _, entry := range entries {
		entry.module.Close()
	}
	r.metrics.SetOpenLists(0)
}
