package domain

import "fmt"

// SortBy selects the order of a filtered template list.
type SortBy string

const (
	SortNameAsc    SortBy = "name-asc"
	SortNameDesc   SortBy = "name-desc"
	SortDateNewest SortBy = "date-newest"
	SortDateOldest SortBy = "date-oldest"

	// SortNone keeps the input order.
	SortNone SortBy = ""

	DefaultSort = SortDateNewest
)

// FilterSpec is the search text, module filter and sort order of a
// template listing.
type FilterSpec struct {
	SearchTerm      string   `json:"searchTerm"`
	SelectedModules []string `json:"selectedModules"`
	SortBy          SortBy   `json:"sortBy"`
}

func ParseSortBy(s string) (SortBy, error) {
	switch v := SortBy(s); v {
	case SortNameAsc, SortNameDesc, SortDateNewest, SortDateOldest, SortNone:
		return v, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Label is the human-readable name of the sort order.
func (s SortBy) Label() string {
	switch s {
	case SortNameAsc:
		return "Name A-Z"
	case SortNameDesc:
		return "Name Z-A"
	case SortDateNewest:
		return "Newest First"
	case SortDateOldest:
		return "Oldest First"
	default:
		return "Unsorted"
	}
}
