package dto

import "github.com/fekuna/omnipos-catalog-service/internal/pagination"

type DiscountFilters struct {
	Pagination pagination.Params
}
