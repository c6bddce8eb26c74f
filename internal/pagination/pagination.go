package pagination

import "github.com/fekuna/omnipos-catalog-service/internal/apperr"

const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

// Params is a stable limit/offset window over insertion order.
type Params struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

func Default() Params {
	return Params{Limit: DefaultLimit, Offset: DefaultOffset}
}

func (p Params) Validate() error {
	if p.Limit < 1 {
		return apperr.Validation("limit must be greater or equal to 1, got %d", p.Limit)
	}
	if p.Offset < 0 {
		return apperr.Validation("offset must be greater or equal to 0, got %d", p.Offset)
	}
	return nil
}
