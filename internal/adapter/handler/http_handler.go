package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rl1809/store-pos/internal/adapter/handler/rpcapi"
	"github.com/rl1809/store-pos/internal/core/domain"
	"github.com/rl1809/store-pos/internal/core/service"
)

type HTTPHandler struct {
	orders    OrderUseCase
	inventory InventoryUseCase
	accounts  AccountUseCase
	logger    *zap.Logger
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type StockAdjustmentRequest struct {
	Delta int `json:"delta"`
}

type SignupHTTPRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Address  string `json:"address"`
	CellNo   string `json:"cell_no"`
}

type LoginHTTPRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AccountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func NewHTTPHandler(orders OrderUseCase, inventory InventoryUseCase, accounts AccountUseCase, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{orders: orders, inventory: inventory, accounts: accounts, logger: logger}
}

// Routes mounts every endpoint on a fresh chi router.
func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
		r.Post("/products/{id}/stock", h.AdjustStock)

		r.Get("/suppliers", h.ListSuppliers)
		r.Post("/suppliers", h.CreateSupplier)
		r.Put("/suppliers/{id}", h.UpdateSupplier)

		r.Post("/orders", h.SubmitOrder)
		r.Get("/customers/{id}/orders", h.OrderHistory)
		r.Get("/totals", h.DailyTotals)

		r.Post("/customers", h.Signup)
		r.Post("/login", h.Login)
	})
	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.orders.ListAvailableProducts(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProducts(products))
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req rpcapi.Product
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.inventory.AddProduct(r.Context(), fromProduct(req))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProduct(*p))
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req rpcapi.Product
	if !decodeBody(w, r, &req) {
		return
	}

	p := fromProduct(req)
	p.ID = id
	if err := h.inventory.UpdateProduct(r.Context(), p); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProduct(p))
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.inventory.DeleteProduct(r.Context(), id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req StockAdjustmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	stock, err := h.inventory.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rpcapi.AdjustStockResponse{ProductID: id, Stock: stock})
}

func (h *HTTPHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.inventory.ListSuppliers(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSuppliers(suppliers))
}

func (h *HTTPHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req rpcapi.Supplier
	if !decodeBody(w, r, &req) {
		return
	}

	s, err := h.inventory.AddSupplier(r.Context(), domain.Supplier{Name: req.Name, Contact: req.Contact})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rpcapi.Supplier{ID: s.ID, Name: s.Name, Contact: s.Contact})
}

func (h *HTTPHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req rpcapi.Supplier
	if !decodeBody(w, r, &req) {
		return
	}

	s := domain.Supplier{ID: id, Name: req.Name, Contact: req.Contact}
	if err := h.inventory.UpdateSupplier(r.Context(), s); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rpcapi.Supplier{ID: s.ID, Name: s.Name, Contact: s.Contact})
}

func (h *HTTPHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req rpcapi.SubmitOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := submitOrder(r.Context(), h.orders, &req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *HTTPHandler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entries, err := h.inventory.GetCustomerOrderHistory(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rpcapi.OrderHistoryResponse{Entries: toHistory(entries)})
}

func (h *HTTPHandler) DailyTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.inventory.ListDailyTotals(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailyTotals(totals))
}

func (h *HTTPHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupHTTPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.accounts.RegisterCustomer(r.Context(), service.SignupRequest{
		Username: req.Username,
		Password: req.Password,
		Address:  req.Address,
		CellNo:   req.CellNo,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, AccountResponse{ID: c.ID, Username: c.Username, Role: string(domain.RoleCustomer)})
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginHTTPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AccountResponse{ID: p.ID, Username: p.Username, Role: string(p.Role)})
}

func (h *HTTPHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// writeDomainError maps service errors onto HTTP statuses. Unknown errors
// are logged and reported without detail.
func (h *HTTPHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *domain.InsufficientStockError
	var payErr *domain.InsufficientPaymentError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrEmptyOrder):
		writeError(w, http.StatusBadRequest, "empty_order", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.As(err, &stockErr):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.As(err, &payErr):
		writeError(w, http.StatusPaymentRequired, "insufficient_payment", err.Error())
	case errors.Is(err, domain.ErrDuplicateRequest):
		writeError(w, http.StatusConflict, "duplicate_request", err.Error())
	case errors.Is(err, domain.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, domain.ErrLockTimeout):
		writeError(w, http.StatusServiceUnavailable, "busy", "please retry")
	default:
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
