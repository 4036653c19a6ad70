package query

import "github.com/WTMsoft/PremScout/internal/player"

// State is the browsing state of a player table. Methods return a new State.
// Any change to the filter or sort criteria moves back to page 1.
type State struct {
	Filter FilterCriteria `json:"filter"`
	Sort   SortSpec       `json:"sort"`
	Page   int            `json:"page"`
}

func NewState() State {
	return State{
		Filter: DefaultFilter(),
		Sort:   SortSpec{Descending: true},
		Page:   1,
	}
}

func (s State) WithFilter(c FilterCriteria) State {
	if c != s.Filter {
		s.Filter = c
		s.Page = 1
	}
	return s
}

func (s State) WithSort(spec SortSpec) State {
	if spec != s.Sort {
		s.Sort = spec
		s.Page = 1
	}
	return s
}

// ToggleSort flips direction when f is already the sort field, otherwise
// sorts by f descending.
func (s State) ToggleSort(f Field) State {
	if s.Sort.Field == f {
		s.Sort.Descending = !s.Sort.Descending
	} else {
		s.Sort = SortSpec{Field: f, Descending: true}
	}
	s.Page = 1
	return s
}

func (s State) ResetSort() State {
	s.Sort = SortSpec{Descending: true}
	s.Page = 1
	return s
}

// WithPage stores n as is. Paginate clamps it.
func (s State) WithPage(n int) State {
	s.Page = n
	return s
}

// Apply runs filter, sort and pagination in that order.
func (s State) Apply(records []player.Record, pageSize int) Page {
	filtered := Filter(records, s.Filter)
	sorted := Sort(filtered, s.Sort)
	return Paginate(sorted, PageRequest{Page: s.Page, Size: pageSize})
}
