package domain

// PaginationParams selects one page of a list query. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset converts the page selection into a row offset for SQL LIMIT/OFFSET
// queries. Pages below 1 are treated as the first page.
func (p PaginationParams) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.PageSize
}
