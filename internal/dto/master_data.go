package dto

// BankRequest creates a bank.
type BankRequest struct {
	Name string `json:"name" validate:"required,min=2,max=200"`
}

// BankUpdateRequest edits a bank's name and invoice defaults.
type BankUpdateRequest struct {
	Name              *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	AccountName       *string `json:"account_name,omitempty" validate:"omitempty,max=200"`
	AccountNumber     *string `json:"account_number,omitempty" validate:"omitempty,max=50"`
	IFSC              *string `json:"ifsc,omitempty" validate:"omitempty,max=20"`
	AccountBankName   *string `json:"account_bank_name,omitempty" validate:"omitempty,max=200"`
	AccountBranchName *string `json:"account_branch_name,omitempty" validate:"omitempty,max=200"`
	UPIID             *string `json:"upi_id,omitempty" validate:"omitempty,max=100"`
	InvoiceNotes      *string `json:"invoice_notes,omitempty" validate:"omitempty,max=500"`
}

// BranchRequest creates a branch under a bank.
type BranchRequest struct {
	BankID                int      `json:"bank_id" validate:"required,gt=0"`
	Name                  string   `json:"name" validate:"required,min=2,max=200"`
	ExpectedFrequencyDays *int     `json:"expected_frequency_days,omitempty" validate:"omitempty,gte=0"`
	ExpectedWeeklyRevenue *float64 `json:"expected_weekly_revenue,omitempty" validate:"omitempty,gte=0"`
	Address               *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	City                  *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	District              *string  `json:"district,omitempty" validate:"omitempty,max=100"`
	ContactName           *string  `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	ContactRole           *string  `json:"contact_role,omitempty" validate:"omitempty,max=100"`
	Phone                 *string  `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email                 *string  `json:"email,omitempty" validate:"omitempty,max=250"`
	WhatsApp              *string  `json:"whatsapp,omitempty" validate:"omitempty,max=50"`
	Notes                 *string  `json:"notes,omitempty" validate:"omitempty,max=500"`
	IsActive              *bool    `json:"is_active,omitempty"`
}

// BranchUpdateRequest edits a branch; nil fields are left untouched.
type BranchUpdateRequest struct {
	Name                  *string  `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	ExpectedFrequencyDays *int     `json:"expected_frequency_days,omitempty" validate:"omitempty,gte=0"`
	ExpectedWeeklyRevenue *float64 `json:"expected_weekly_revenue,omitempty" validate:"omitempty,gte=0"`
	Address               *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	City                  *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	District              *string  `json:"district,omitempty" validate:"omitempty,max=100"`
	ContactName           *string  `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	ContactRole           *string  `json:"contact_role,omitempty" validate:"omitempty,max=100"`
	Phone                 *string  `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email                 *string  `json:"email,omitempty" validate:"omitempty,max=250"`
	WhatsApp              *string  `json:"whatsapp,omitempty" validate:"omitempty,max=50"`
	Notes                 *string  `json:"notes,omitempty" validate:"omitempty,max=500"`
	IsActive              *bool    `json:"is_active,omitempty"`
}

// ClientRequest creates an external valuer or direct client.
type ClientRequest struct {
	Name  string  `json:"name" validate:"required,min=2,max=200"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email *string `json:"email,omitempty" validate:"omitempty,max=250"`
}

// PropertyTypeRequest creates a property type.
type PropertyTypeRequest struct {
	Name string `json:"name" validate:"required,min=2,max=200"`
}
