package dto

import (
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pagination"
)

type ReservationFilters struct {
	Status     *model.ReservationStatus
	Pagination pagination.Params
}

// SalesFilters narrows the sales report. CategoryID matches the product's
// direct category only.
type SalesFilters struct {
	CategoryID *int64
	ProductID  *int64
	Pagination pagination.Params
}
