package dto

import "github.com/fekuna/omnipos-catalog-service/internal/pagination"

type CategoryFilters struct {
	Pagination pagination.Params
}
