package rpcapi

import "github.com/shopspring/decimal"

// Messages shared by the gRPC service and the HTTP API.

type Product struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	SupplierID int64           `json:"supplier_id,omitempty"`
}

type Supplier struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type Sale struct {
	ID         string          `json:"id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	SaleDate   string          `json:"sale_date"`
	CustomerID int64           `json:"customer_id"`
}

type HistoryEntry struct {
	SaleID      string          `json:"sale_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	SaleDate    string          `json:"sale_date"`
}

type DailyTotal struct {
	SaleDate string          `json:"sale_date"`
	Amount   decimal.Decimal `json:"amount"`
}

type ListProductsRequest struct{}

type ListProductsResponse struct {
	Products []Product `json:"products"`
}

type SubmitOrderRequest struct {
	RequestID  string      `json:"request_id,omitempty"`
	CustomerID int64       `json:"customer_id"`
	Lines      []OrderLine `json:"lines"`
	// Tendered, when set, is checked against the order total and the
	// response carries the change.
	Tendered *decimal.Decimal `json:"tendered,omitempty"`
}

type SubmitOrderResponse struct {
	OrderTotal decimal.Decimal  `json:"order_total"`
	Sales      []Sale           `json:"sales"`
	Change     *decimal.Decimal `json:"change,omitempty"`
}

type OrderHistoryRequest struct {
	CustomerID int64 `json:"customer_id"`
}

type OrderHistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

type AdjustStockRequest struct {
	ProductID int64 `json:"product_id"`
	Delta     int   `json:"delta"`
}

type AdjustStockResponse struct {
	ProductID int64 `json:"product_id"`
	Stock     int   `json:"stock"`
}
