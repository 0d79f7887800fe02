package assignmentlist

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

const (
	listPath    = "/api/assignments"
	summaryPath = "/api/assignments/summary"

	// DefaultPageSize is used when the configuration leaves page size unset.
	DefaultPageSize = 50
	// MaxPageSize is the largest limit the backend accepts.
	MaxPageSize = 500

	dateLayout = "2006-01-02"
)

// Completion filters on whether the status is COMPLETED.
type Completion string

const (
	CompletionAll       Completion = "ALL"
	CompletionPending   Completion = "PENDING"
	CompletionCompleted Completion = "COMPLETED"
)

// Payment filters on the paid flag.
type Payment string

const (
	PaymentAll    Payment = "ALL"
	PaymentPaid   Payment = "PAID"
	PaymentUnpaid Payment = "UNPAID"
)

// SortDir is the sort direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Sortable columns accepted by the backend.
const (
	SortAssignmentCode = "assignment_code"
	SortCreatedAt      = "created_at"
	SortStatus         = "status"
	SortIsPaid         = "is_paid"
	SortFees           = "fees"
	SortID             = "id"
)

var sortKeys = map[string]struct{}{
	SortAssignmentCode: {},
	SortCreatedAt:      {},
	SortStatus:         {},
	SortIsPaid:         {},
	SortFees:           {},
	SortID:             {},
}

// SortKeys returns the allow-listed sort columns.
func SortKeys() []string {
	return []string{SortAssignmentCode, SortCreatedAt, SortStatus, SortIsPaid, SortFees, SortID}
}

// IsSortKey reports whether key is allow-listed.
func IsSortKey(key string) bool {
	_, ok := sortKeys[key]
	return ok
}

// Scope narrows the list to a bank, a branch, or neither.
type Scope struct {
	BankID   *int `json:"bank_id,omitempty"`
	BranchID *int `json:"branch_id,omitempty"`
}

// Equal compares two scopes by value.
func (s Scope) Equal(o Scope) bool {
	return intPtrEqual(s.BankID, o.BankID) && intPtrEqual(s.BranchID, o.BranchID)
}

// Query is the filter, sort and paging state of a list.
type Query struct {
	CreatedFrom string     `json:"created_from,omitempty"`
	CreatedTo   string     `json:"created_to,omitempty"`
	Completion  Completion `json:"completion"`
	Payment     Payment    `json:"payment"`
	SortBy      string     `json:"sort_by"`
	SortDir     SortDir    `json:"sort_dir"`
	PageSize    int        `json:"page_size"`
	Offset      int        `json:"offset"`
}

// DefaultQuery is the state a freshly mounted list starts from.
func DefaultQuery(pageSize int) Query {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Query{
		Completion: CompletionAll,
		Payment:    PaymentAll,
		SortBy:     SortCreatedAt,
		SortDir:    SortDesc,
		PageSize:   pageSize,
	}
}

// IsPaidParam maps the payment filter to the is_paid parameter; nil means omit.
func (q Query) IsPaidParam() *bool {
	switch q.Payment {
	case PaymentPaid:
		v := true
		return &v
	case PaymentUnpaid:
		v := false
		return &v
	default:
		return nil
	}
}

// ListPath builds the collection request. Parameter order is fixed so the
// path doubles as the fingerprint of the full query state.
func ListPath(scope Scope, q Query) string {
	params := scopeParams(scope)
	params = append(params,
		param{"skip", strconv.Itoa(q.Offset)},
		param{"limit", strconv.Itoa(q.PageSize)},
	)
	params = append(params, dateParams(q)...)
	if q.Completion != "" && q.Completion != CompletionAll {
		params = append(params, param{"completion", string(q.Completion)})
	}
	if paid := q.IsPaidParam(); paid != nil {
		params = append(params, param{"is_paid", strconv.FormatBool(*paid)})
	}
	params = append(params,
		param{"sort_by", q.SortBy},
		param{"sort_dir", string(q.SortDir)},
	)
	return listPath + encode(params)
}

// SummaryPath builds the summary request: scope and dates only.
func SummaryPath(scope Scope, q Query) string {
	params := scopeParams(scope)
	params = append(params, dateParams(q)...)
	return summaryPath + encode(params)
}

// ParseDate validates a YYYY-MM-DD date; empty input clears the bound.
func ParseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
	}
	return raw, nil
}

// ParseCompletion accepts ALL, PENDING or COMPLETED in any case.
func ParseCompletion(raw string) (Completion, error) {
	switch c := Completion(strings.ToUpper(strings.TrimSpace(raw))); c {
	case CompletionAll, CompletionPending, CompletionCompleted:
		return c, nil
	case "":
		return CompletionAll, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "completion must be ALL, PENDING, or COMPLETED")
	}
}

// ParsePayment accepts ALL, PAID or UNPAID in any case.
func ParsePayment(raw string) (Payment, error) {
	switch p := Payment(strings.ToUpper(strings.TrimSpace(raw))); p {
	case PaymentAll, PaymentPaid, PaymentUnpaid:
		return p, nil
	case "":
		return PaymentAll, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "payment must be ALL, PAID, or UNPAID")
	}
}

type param struct {
	key   string
	value string
}

func scopeParams(scope Scope) []param {
	params := make([]param, 0, 10)
	if scope.BankID != nil {
		params = append(params, param{"bank_id", strconv.Itoa(*scope.BankID)})
	}
	if scope.BranchID != nil {
		params = append(params, param{"branch_id", strconv.Itoa(*scope.BranchID)})
	}
	return params
}

func dateParams(q Query) []param {
	var params []param
	if q.CreatedFrom != "" {
		params = append(params, param{"created_from", q.CreatedFrom})
	}
	if q.CreatedTo != "" {
		params = append(params, param{"created_to", q.CreatedTo})
	}
	return params
}

func encode(params []param) string {
	if len(params) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
