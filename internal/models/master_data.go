package models

// Bank is a lender that commissions valuations.
type Bank struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	AccountName       *string `json:"account_name,omitempty"`
	AccountNumber     *string `json:"account_number,omitempty"`
	IFSC              *string `json:"ifsc,omitempty"`
	AccountBankName   *string `json:"account_bank_name,omitempty"`
	AccountBranchName *string `json:"account_branch_name,omitempty"`
	UPIID             *string `json:"upi_id,omitempty"`
	InvoiceNotes      *string `json:"invoice_notes,omitempty"`
}

// Branch belongs to exactly one bank.
type Branch struct {
	ID                    int      `json:"id"`
	BankID                int      `json:"bank_id"`
	Name                  string   `json:"name"`
	ExpectedFrequencyDays *int     `json:"expected_frequency_days,omitempty"`
	ExpectedWeeklyRevenue *float64 `json:"expected_weekly_revenue,omitempty"`
	Address               *string  `json:"address,omitempty"`
	City                  *string  `json:"city,omitempty"`
	District              *string  `json:"district,omitempty"`
	ContactName           *string  `json:"contact_name,omitempty"`
	ContactRole           *string  `json:"contact_role,omitempty"`
	Phone                 *string  `json:"phone,omitempty"`
	Email                 *string  `json:"email,omitempty"`
	WhatsApp              *string  `json:"whatsapp,omitempty"`
	Notes                 *string  `json:"notes,omitempty"`
	IsActive              bool     `json:"is_active"`
}

// Client is an external valuer or a direct customer.
type Client struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// PropertyType classifies the valued property.
type PropertyType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MasterDataKind names a master-data collection.
type MasterDataKind string

const (
	KindBanks         MasterDataKind = "banks"
	KindBranches      MasterDataKind = "branches"
	KindClients       MasterDataKind = "clients"
	KindPropertyTypes MasterDataKind = "property-types"
)

// MasterDataOption is a picker entry shared by every master-data kind.
type MasterDataOption struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Rank  int    `json:"rank,omitempty"`
}
