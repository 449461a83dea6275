package domain

// HistoryParams holds pagination of a user's stored analyses.
type HistoryParams struct {
	UserID string

	// Filters
	MinScore *float64

	// Pagination
	Page     int // Page number (1-indexed)
	PageSize int // Items per page
}

// DefaultHistoryParams returns history params with sensible defaults.
func DefaultHistoryParams(userID string) HistoryParams {
	return HistoryParams{
		UserID:   userID,
		Page:     1,
		PageSize: 20,
	}
}

// Validate ensures params are within acceptable bounds. This is bound correction, not validation.
func (p *HistoryParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset calculates the database offset for pagination.
func (p *HistoryParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the page size.
func (p *HistoryParams) Limit() int {
	return p.PageSize
}

// AnalysisPage holds a page of stored analyses.
type AnalysisPage struct {
	Analyses   []*AnalysisRecord `json:"analyses"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// NewAnalysisPage creates a page with calculated pagination.
func NewAnalysisPage(analyses []*AnalysisRecord, total int64, params HistoryParams) *AnalysisPage {
	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}

	return &AnalysisPage{
		Analyses:   analyses,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}
}
