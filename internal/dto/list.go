package dto

// ListAction names a user interaction with an assignments table.
type ListAction string

const (
	ActionSort     ListAction = "sort"
	ActionNext     ListAction = "next"
	ActionPrev     ListAction = "prev"
	ActionFilters  ListAction = "filters"
	ActionPageSize ListAction = "page_size"
	ActionRefresh  ListAction = "refresh"
	ActionCompact  ListAction = "compact"
)

// ListActionRequest is posted by the console for every table interaction.
// Filter fields are pointers so a filters action only touches what it names.
type ListActionRequest struct {
	Action      ListAction `json:"action" validate:"required,oneof=sort next prev filters page_size refresh compact"`
	SortBy      string     `json:"sort_by,omitempty"`
	CreatedFrom *string    `json:"created_from,omitempty"`
	CreatedTo   *string    `json:"created_to,omitempty"`
	Completion  *string    `json:"completion,omitempty"`
	Payment     *string    `json:"payment,omitempty"`
	PageSize    int        `json:"page_size,omitempty" validate:"omitempty,min=1,max=500"`
	Compact     *bool      `json:"compact,omitempty"`
}

// ListSnapshotQuery tunes how long a snapshot request waits for fetches to settle.
type ListSnapshotQuery struct {
	WaitMS int `form:"wait_ms" validate:"omitempty,min=0,max=10000"`
}

// SearchQuery is a fuzzy master-data lookup.
type SearchQuery struct {
	Kind  string `form:"kind" validate:"required,oneof=banks branches clients property-types"`
	Q     string `form:"q"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Bank  *int   `form:"bank_id"`
}
