package service

// Page selects a 1-indexed page of Limit rows
type Page struct {
	Page  int // 1-indexed page number
	Limit int // Rows per page
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta describes a paginated result
type PageMeta struct {
	Total       int64 `json:"total"`       // Rows matching the filters
	Pages       int   `json:"pages"`       // ceil(total/limit)
	CurrentPage int   `json:"currentPage"` // Requested page
}

// NewPageMeta computes pagination metadata for total rows
func NewPageMeta(total int64, p Page) PageMeta {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit)) // Calculate total pages
	}
	return PageMeta{Total: total, Pages: pages, CurrentPage: p.Page}
}
