package domain

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	ProductID int64
	Quantity  int
}

// Cart is an immutable set of positive-quantity lines, one per product,
// ordered by product ID.
type Cart struct {
	lines []CartLine
}

// NewCart drops lines with a non-positive quantity and merges repeated
// products into a single line. A merged quantity that does not fit in an
// int is ErrInvalidInput.
func NewCart(lines []CartLine) (Cart, error) {
	merged := make(map[int64]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if l.Quantity > math.MaxInt-merged[l.ProductID] {
			return Cart{}, fmt.Errorf("%w: quantity of product %d overflows", ErrInvalidInput, l.ProductID)
		}
		merged[l.ProductID] += l.Quantity
	}

	out := make([]CartLine, 0, len(merged))
	for id, qty := range merged {
		out = append(out, CartLine{ProductID: id, Quantity: qty})
	}
	// Ascending IDs give every order the same row-lock order.
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })

	return Cart{lines: out}, nil
}

func (c Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

type OrderState string

const (
	OrderStateBuilding   OrderState = "building"
	OrderStateValidating OrderState = "validating"
	OrderStateCommitting OrderState = "committing"
	OrderStateCommitted  OrderState = "committed"
	OrderStateRolledBack OrderState = "rolled_back"
)

type OrderRequest struct {
	// RequestID is optional; when set, a repeated submission is rejected.
	RequestID  string
	CustomerID int64
	Lines      []CartLine
}

type SaleRecord struct {
	ID         string
	ProductID  int64
	Quantity   int
	UnitPrice  decimal.Decimal
	SaleDate   time.Time
	CustomerID int64
	CreatedAt  time.Time
}

func (s SaleRecord) Subtotal() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

type OrderResult struct {
	OrderTotal decimal.Decimal
	Sales      []SaleRecord
}

// HistoryEntry is one line of a customer's purchase history.
type HistoryEntry struct {
	SaleID      string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	SaleDate    time.Time
}
