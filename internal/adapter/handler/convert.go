package handler

import (
	"time"

	"github.com/rl1809/store-pos/internal/adapter/handler/rpcapi"
	"github.com/rl1809/store-pos/internal/core/domain"
)

func toProducts(in []domain.Product) []rpcapi.Product {
	out := make([]rpcapi.Product, 0, len(in))
	for _, p := range in {
		out = append(out, toProduct(p))
	}
	return out
}

func toProduct(p domain.Product) rpcapi.Product {
	return rpcapi.Product{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.UnitPrice,
		Stock:      p.StockQuantity,
		SupplierID: p.SupplierID,
	}
}

func fromProduct(p rpcapi.Product) domain.Product {
	return domain.Product{
		ID:            p.ID,
		Name:          p.Name,
		UnitPrice:     p.Price,
		StockQuantity: p.Stock,
		SupplierID:    p.SupplierID,
	}
}

func toSuppliers(in []domain.Supplier) []rpcapi.Supplier {
	out := make([]rpcapi.Supplier, 0, len(in))
	for _, s := range in {
		out = append(out, rpcapi.Supplier{ID: s.ID, Name: s.Name, Contact: s.Contact})
	}
	return out
}

func toOrderRequest(req *rpcapi.SubmitOrderRequest) domain.OrderRequest {
	lines := make([]domain.CartLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, domain.CartLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return domain.OrderRequest{
		RequestID:  req.RequestID,
		CustomerID: req.CustomerID,
		Lines:      lines,
	}
}

func toSubmitOrderResponse(res *domain.OrderResult) *rpcapi.SubmitOrderResponse {
	sales := make([]rpcapi.Sale, 0, len(res.Sales))
	for _, s := range res.Sales {
		sales = append(sales, rpcapi.Sale{
			ID:         s.ID,
			ProductID:  s.ProductID,
			Quantity:   s.Quantity,
			UnitPrice:  s.UnitPrice,
			Subtotal:   s.Subtotal(),
			SaleDate:   s.SaleDate.Format(time.DateOnly),
			CustomerID: s.CustomerID,
		})
	}
	return &rpcapi.SubmitOrderResponse{OrderTotal: res.OrderTotal, Sales: sales}
}

func toHistory(in []domain.HistoryEntry) []rpcapi.HistoryEntry {
	out := make([]rpcapi.HistoryEntry, 0, len(in))
	for _, e := range in {
		out = append(out, rpcapi.HistoryEntry{
			SaleID:      e.SaleID,
			ProductName: e.ProductName,
			Quantity:    e.Quantity,
			UnitPrice:   e.UnitPrice,
			Total:       e.Total,
			SaleDate:    e.SaleDate.Format(time.DateOnly),
		})
	}
	return out
}

func toDailyTotals(in []domain.DailyTotal) []rpcapi.DailyTotal {
	out := make([]rpcapi.DailyTotal, 0, len(in))
	for _, t := range in {
		out = append(out, rpcapi.DailyTotal{SaleDate: t.SaleDate.Format(time.DateOnly), Amount: t.Amount})
	}
	return out
}
