package handler

import (
	"context"

	"github.com/rl1809/store-pos/internal/adapter/handler/rpcapi"
)

// submitOrder is shared by both transports. With a tendered amount the
// payment is settled inside the order transaction.
func submitOrder(ctx context.Context, orders OrderUseCase, req *rpcapi.SubmitOrderRequest) (*rpcapi.SubmitOrderResponse, error) {
	orderReq := toOrderRequest(req)

	if req.Tendered == nil {
		res, err := orders.SubmitOrder(ctx, orderReq)
		if err != nil {
			return nil, err
		}
		return toSubmitOrderResponse(res), nil
	}

	res, change, err := orders.PlaceOrder(ctx, orderReq, *req.Tendered)
	if err != nil {
		return nil, err
	}
	resp := toSubmitOrderResponse(res)
	resp.Change = &change
	return resp, nil
}
