package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CaseType tells who commissioned the valuation.
type CaseType string

const (
	CaseTypeBank           CaseType = "BANK"
	CaseTypeExternalValuer CaseType = "EXTERNAL_VALUER"
	CaseTypeDirectClient   CaseType = "DIRECT_CLIENT"
)

// AssignmentStatus is the workflow position of an assignment.
type AssignmentStatus string

// Canonical workflow, in order.
const (
	StatusSiteVisit  AssignmentStatus = "SITE_VISIT"
	StatusInProgress AssignmentStatus = "IN_PROGRESS"
	StatusFinalCheck AssignmentStatus = "FINAL_CHECK"
	StatusCompleted  AssignmentStatus = "COMPLETED"
	StatusPaid       AssignmentStatus = "PAID"
)

// Statuses lists the workflow in order.
var Statuses = []AssignmentStatus{StatusSiteVisit, StatusInProgress, StatusFinalCheck, StatusCompleted, StatusPaid}

// Assignment is a valuation job as returned by the backend.
type Assignment struct {
	ID             int              `json:"id"`
	AssignmentCode string           `json:"assignment_code"`
	CaseType       CaseType         `json:"case_type"`
	BankID         *int             `json:"bank_id,omitempty"`
	BranchID       *int             `json:"branch_id,omitempty"`
	ClientID       *int             `json:"client_id,omitempty"`
	PropertyTypeID *int             `json:"property_type_id,omitempty"`
	BankName       *string          `json:"bank_name,omitempty"`
	BranchName     *string          `json:"branch_name,omitempty"`
	ClientName     *string          `json:"valuer_client_name,omitempty"`
	PropertyType   *string          `json:"property_type,omitempty"`
	BorrowerName   *string          `json:"borrower_name,omitempty"`
	Phone          *string          `json:"phone,omitempty"`
	Address        *string          `json:"address,omitempty"`
	LandArea       *float64         `json:"land_area,omitempty"`
	BuiltupArea    *float64         `json:"builtup_area,omitempty"`
	Status         AssignmentStatus `json:"status"`
	AssignedTo     *string          `json:"assigned_to,omitempty"`
	SiteVisitDate  *string          `json:"site_visit_date,omitempty"`
	ReportDueDate  *string          `json:"report_due_date,omitempty"`
	Fees           decimal.Decimal  `json:"fees"`
	IsPaid         bool             `json:"is_paid"`
	Notes          *string          `json:"notes,omitempty"`
	CreatedAt      Timestamp        `json:"created_at"`
	UpdatedAt      Timestamp        `json:"updated_at"`
}

// IsCompleted reports whether the status, case-normalised, is COMPLETED.
func (a Assignment) IsCompleted() bool {
	return strings.ToUpper(strings.TrimSpace(string(a.Status))) == string(StatusCompleted)
}

// IsUnpaidCompleted marks finished work whose fees are still outstanding.
func (a Assignment) IsUnpaidCompleted() bool {
	return a.IsCompleted() && !a.IsPaid
}

// Counterparty returns the bank name for bank cases and the client name otherwise.
func (a Assignment) Counterparty() string {
	if a.CaseType == CaseTypeBank {
		return deref(a.BankName)
	}
	return deref(a.ClientName)
}

// DisplayName is the borrower, falling back to the external/direct client.
func (a Assignment) DisplayName() string {
	if name := strings.TrimSpace(deref(a.BorrowerName)); name != "" {
		return name
	}
	return strings.TrimSpace(deref(a.ClientName))
}

// AssignmentSummary holds the backend counts for a scope and date range.
type AssignmentSummary struct {
	Total           int `json:"total"`
	Pending         int `json:"pending"`
	Completed       int `json:"completed"`
	CompletedUnpaid int `json:"completed_unpaid"`
}

// CompletedPaid is completed minus completed-unpaid, never negative.
func (s AssignmentSummary) CompletedPaid() int {
	if paid := s.Completed - s.CompletedUnpaid; paid > 0 {
		return paid
	}
	return 0
}

// AssignmentFile is the metadata of a document attached to an assignment.
type AssignmentFile struct {
	ID           int       `json:"id"`
	AssignmentID int       `json:"assignment_id"`
	Filename     string    `json:"filename"`
	ContentType  *string   `json:"content_type,omitempty"`
	SizeBytes    *int64    `json:"size_bytes,omitempty"`
	UploadedAt   Timestamp `json:"uploaded_at"`
}

// AssignmentDetail bundles an assignment with its attached files.
type AssignmentDetail struct {
	Assignment Assignment       `json:"assignment"`
	Files      []AssignmentFile `json:"files"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
