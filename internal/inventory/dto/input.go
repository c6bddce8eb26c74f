package dto

// StockInput is the request shape of both reserve and sell.
type StockInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}
