package dto

import "github.com/fekuna/omnipos-catalog-service/internal/pagination"

// ProductFilters selects in-stock products, optionally restricted to a set of
// categories.
type ProductFilters struct {
	CategoryIDs []int64
	Pagination  pagination.Params
}
