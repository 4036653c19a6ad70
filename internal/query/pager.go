package query

import "github.com/WTMsoft/PremScout/internal/player"

const DefaultPageSize = 20

// PageRequest asks for a 1-based page. Size <= 0 uses DefaultPageSize.
type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

type Page struct {
	Items       []player.Record `json:"items"`
	CurrentPage int             `json:"current_page"`
	TotalPages  int             `json:"total_pages"`
	TotalItems  int             `json:"total_items"`
	PageSize    int             `json:"page_size"`
}

// TotalPages is never less than 1, even for an empty list.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return max(1, (n+size-1)/size)
}

// Paginate slices out one page, clamping the requested page into range.
func Paginate(records []player.Record, req PageRequest) Page {
	size := req.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(records), size)
	page := min(max(req.Page, 1), total)

	start := min((page-1)*size, len(records))
	end := min(start+size, len(records))
	items := make([]player.Record, end-start)
	copy(items, records[start:end])

	return Page{
		Items:       items,
		CurrentPage: page,
		TotalPages:  total,
		TotalItems:  len(records),
		PageSize:    size,
	}
}

func (p Page) HasNext() bool { return p.CurrentPage < p.TotalPages }
func (p Page) HasPrev() bool { return p.CurrentPage > 1 }
