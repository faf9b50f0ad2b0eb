package request

import "theatre-booking/pkg/utils"

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// NewPaginatedRequest clamps raw query values into a valid page.
func NewPaginatedRequest(page, perPage int) PaginatedRequest {
	page, perPage = utils.ClampPage(page, perPage)
	return PaginatedRequest{Page: page, PerPage: perPage}
}

func (p PaginatedRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

func (p PaginatedRequest) Limit() int {
	_, perPage := utils.ClampPage(p.Page, p.PerPage)
	return perPage
}
