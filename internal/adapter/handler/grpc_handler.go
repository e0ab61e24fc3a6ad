package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/store-pos/internal/adapter/handler/rpcapi"
	"github.com/rl1809/store-pos/internal/core/domain"
)

type GRPCHandler struct {
	rpcapi.UnimplementedOrderServiceServer
	orders    OrderUseCase
	inventory InventoryUseCase
	logger    *zap.Logger
}

func NewGRPCHandler(orders OrderUseCase, inventory InventoryUseCase, logger *zap.Logger) *GRPCHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandler{orders: orders, inventory: inventory, logger: logger}
}

// Register attaches the handler to s.
func (h *GRPCHandler) Register(s grpc.ServiceRegistrar) {
	rpcapi.RegisterOrderServiceServer(s, h)
}

func (h *GRPCHandler) ListProducts(ctx context.Context, _ *rpcapi.ListProductsRequest) (*rpcapi.ListProductsResponse, error) {
	products, err := h.orders.ListAvailableProducts(ctx)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpcapi.ListProductsResponse{Products: toProducts(products)}, nil
}

func (h *GRPCHandler) SubmitOrder(ctx context.Context, req *rpcapi.SubmitOrderRequest) (*rpcapi.SubmitOrderResponse, error) {
	resp, err := submitOrder(ctx, h.orders, req)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return resp, nil
}

func (h *GRPCHandler) OrderHistory(ctx context.Context, req *rpcapi.OrderHistoryRequest) (*rpcapi.OrderHistoryResponse, error) {
	entries, err := h.inventory.GetCustomerOrderHistory(ctx, req.CustomerID)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpcapi.OrderHistoryResponse{Entries: toHistory(entries)}, nil
}

func (h *GRPCHandler) AdjustStock(ctx context.Context, req *rpcapi.AdjustStockRequest) (*rpcapi.AdjustStockResponse, error) {
	stock, err := h.inventory.AdjustStock(ctx, req.ProductID, req.Delta)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &rpcapi.AdjustStockResponse{ProductID: req.ProductID, Stock: stock}, nil
}

func (h *GRPCHandler) toStatus(err error) error {
	var stockErr *domain.InsufficientStockError
	var payErr *domain.InsufficientPaymentError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyOrder), errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &stockErr), errors.As(err, &payErr):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrDuplicateRequest):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrLockTimeout):
		return status.Error(codes.Unavailable, err.Error())
	default:
		h.logger.Error("rpc failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}
