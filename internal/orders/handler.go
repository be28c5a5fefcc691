package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/olist-labs/order-entry/internal/domain"
	"github.com/olist-labs/order-entry/internal/messaging"
)

var meter = otel.Meter("orders/handler")

const defaultRecentLimit = 10

type Handler struct {
	repo         *OrderRepository
	producer     *messaging.Producer
	logger       *slog.Logger
	ordersPlaced metric.Int64Counter
}

func NewHandler(repo *OrderRepository, producer *messaging.Producer, logger *slog.Logger) (*Handler, error) {
	ordersPlaced, err := meter.Int64Counter("orders.placed",
		metric.WithDescription("Orders accepted through the entry form"),
	)
	if err != nil {
		return nil, err
	}

	return &Handler{
		repo:         repo,
		producer:     producer,
		logger:       logger,
		ordersPlaced: ordersPlaced,
	}, nil
}

type createOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	OrderDate  time.Time          `json:"order_date"`
	Status     domain.OrderStatus `json:"status"`
	Items      []domain.OrderItem `json:"items"`
}

func (req *createOrderRequest) validate() error {
	if req.CustomerID == "" {
		return errors.New("customer_id is required")
	}
	if req.OrderDate.IsZero() {
		return errors.New("order_date is required")
	}
	if req.Status != "" && !domain.ValidOrderStatus(req.Status) {
		return fmt.Errorf("unknown status %q", req.Status)
	}
	if len(req.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for i, item := range req.Items {
		if item.ProductID == "" {
			return fmt.Errorf("item %d: product_id is required", i)
		}
		if item.SellerID == "" {
			return fmt.Errorf("item %d: seller_id is required", i)
		}
		if item.Price < 0 {
			return fmt.Errorf("item %d: price must not be negative", i)
		}
		if item.FreightValue < 0 {
			return fmt.Errorf("item %d: freight_value must not be negative", i)
		}
	}
	return nil
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := req.Status
	if status == "" {
		status = domain.OrderStatusDelivered
	}

	order := &domain.Order{
		CustomerID:  req.CustomerID,
		Status:      status,
		PurchasedAt: req.OrderDate,
		Items:       req.Items,
	}

	if err := h.repo.Create(r.Context(), order); err != nil {
		if errors.Is(err, ErrNoItems) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.ordersPlaced.Add(r.Context(), 1)

	if h.producer != nil {
		event := domain.OrderPlacedEvent{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			Items:      order.Items,
			PlacedAt:   order.PurchasedAt,
		}
		if err := h.producer.Publish(r.Context(), order.ID, event); err != nil {
			h.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order created", "order_id", order.ID, "customer_id", order.CustomerID, "items", len(order.Items))
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	recent, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list recent orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("recent orders listed", "count", len(recent))
	h.writeJSON(w, http.StatusOK, recent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
