package entity

// SortOrder is a whitelisted sort key for listing notes.
type SortOrder string

const (
	SortCreatedAtAsc  SortOrder = "created_at_asc"
	SortCreatedAtDesc SortOrder = "created_at_desc"
	SortUpdatedAtAsc  SortOrder = "updated_at_asc"
	SortUpdatedAtDesc SortOrder = "updated_at_desc"
	SortTitleAsc      SortOrder = "title_asc"
	SortTitleDesc     SortOrder = "title_desc"

	DefaultSort = SortUpdatedAtDesc
)

func (s SortOrder) Valid() bool {
	switch s {
	case SortCreatedAtAsc, SortCreatedAtDesc,
		SortUpdatedAtAsc, SortUpdatedAtDesc,
		SortTitleAsc, SortTitleDesc:
		return true
	}
	return false
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ListParams narrows and orders the public note listing. Tag is an exact,
// case-sensitive match; Search is a case-insensitive substring match
// against title or content.
type ListParams struct {
	Tag    string
	Search string
	Sort   SortOrder
	Page   int
	Limit  int
}

// Pagination describes the page that was actually served.
type Pagination struct {
	Page       int
	Limit      int
	TotalItems int
	TotalPages int
}
