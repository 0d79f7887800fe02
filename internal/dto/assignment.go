package dto

// AssignmentRequest is the new-assignment form. Case-type specific rules are
// checked by the assignment service on top of the tags.
type AssignmentRequest struct {
	CaseType         string   `json:"case_type" validate:"required,oneof=BANK EXTERNAL_VALUER DIRECT_CLIENT"`
	BankID           *int     `json:"bank_id,omitempty" validate:"omitempty,gt=0"`
	BranchID         *int     `json:"branch_id,omitempty" validate:"omitempty,gt=0"`
	ClientID         *int     `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	PropertyTypeID   *int     `json:"property_type_id,omitempty" validate:"omitempty,gt=0"`
	BankName         *string  `json:"bank_name,omitempty" validate:"omitempty,max=200"`
	BranchName       *string  `json:"branch_name,omitempty" validate:"omitempty,max=200"`
	ValuerClientName *string  `json:"valuer_client_name,omitempty" validate:"omitempty,max=200"`
	PropertyType     *string  `json:"property_type,omitempty" validate:"omitempty,max=200"`
	BorrowerName     *string  `json:"borrower_name,omitempty" validate:"omitempty,max=255"`
	Phone            *string  `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address          *string  `json:"address,omitempty"`
	LandArea         *float64 `json:"land_area,omitempty" validate:"omitempty,gte=0"`
	BuiltupArea      *float64 `json:"builtup_area,omitempty" validate:"omitempty,gte=0"`
	Status           string   `json:"status,omitempty" validate:"omitempty,oneof=SITE_VISIT IN_PROGRESS FINAL_CHECK COMPLETED PAID"`
	AssignedTo       *string  `json:"assigned_to,omitempty"`
	SiteVisitDate    *string  `json:"site_visit_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReportDueDate    *string  `json:"report_due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Fees             *int64   `json:"fees,omitempty" validate:"omitempty,gte=0"`
	IsPaid           *bool    `json:"is_paid,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

// AssignmentEdit carries the fields changed on the detail page; nil means untouched.
type AssignmentEdit struct {
	CaseType         *string  `json:"case_type,omitempty" validate:"omitempty,oneof=BANK EXTERNAL_VALUER DIRECT_CLIENT"`
	BankID           *int     `json:"bank_id,omitempty" validate:"omitempty,gt=0"`
	BranchID         *int     `json:"branch_id,omitempty" validate:"omitempty,gt=0"`
	ClientID         *int     `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	PropertyTypeID   *int     `json:"property_type_id,omitempty" validate:"omitempty,gt=0"`
	BankName         *string  `json:"bank_name,omitempty"`
	BranchName       *string  `json:"branch_name,omitempty"`
	ValuerClientName *string  `json:"valuer_client_name,omitempty"`
	PropertyType     *string  `json:"property_type,omitempty"`
	BorrowerName     *string  `json:"borrower_name,omitempty"`
	Phone            *string  `json:"phone,omitempty"`
	Address          *string  `json:"address,omitempty"`
	LandArea         *float64 `json:"land_area,omitempty" validate:"omitempty,gte=0"`
	BuiltupArea      *float64 `json:"builtup_area,omitempty" validate:"omitempty,gte=0"`
	Status           *string  `json:"status,omitempty" validate:"omitempty,oneof=SITE_VISIT IN_PROGRESS FINAL_CHECK COMPLETED PAID"`
	AssignedTo       *string  `json:"assigned_to,omitempty"`
	SiteVisitDate    *string  `json:"site_visit_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReportDueDate    *string  `json:"report_due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Fees             *int64   `json:"fees,omitempty" validate:"omitempty,gte=0"`
	IsPaid           *bool    `json:"is_paid,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

// AssignmentDocument is the editable projection of an assignment used to diff edits.
type AssignmentDocument struct {
	CaseType         string   `json:"case_type"`
	BankID           *int     `json:"bank_id"`
	BranchID         *int     `json:"branch_id"`
	ClientID         *int     `json:"client_id"`
	PropertyTypeID   *int     `json:"property_type_id"`
	BankName         *string  `json:"bank_name"`
	BranchName       *string  `json:"branch_name"`
	ValuerClientName *string  `json:"valuer_client_name"`
	PropertyType     *string  `json:"property_type"`
	BorrowerName     *string  `json:"borrower_name"`
	Phone            *string  `json:"phone"`
	Address          *string  `json:"address"`
	LandArea         *float64 `json:"land_area"`
	BuiltupArea      *float64 `json:"builtup_area"`
	Status           string   `json:"status"`
	AssignedTo       *string  `json:"assigned_to"`
	SiteVisitDate    *string  `json:"site_visit_date"`
	ReportDueDate    *string  `json:"report_due_date"`
	Fees             int64    `json:"fees"`
	IsPaid           bool     `json:"is_paid"`
	Notes            *string  `json:"notes"`
}
