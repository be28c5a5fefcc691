package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/olist-labs/order-entry/internal/domain"
)

// ConfirmationHandler turns order.placed events into confirmation emails
// sent through the email service.
type ConfirmationHandler struct {
	emailServiceURL string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewConfirmationHandler(emailServiceURL string, client *http.Client, logger *slog.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{
		emailServiceURL: emailServiceURL,
		httpClient:      client,
		logger:          logger,
	}
}

func (h *ConfirmationHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order placed event: %w", err)
	}

	h.logger.Info("processing order placed event", "order_id", event.OrderID, "customer_id", event.CustomerID)

	var total float64
	for _, item := range event.Items {
		total += item.Price + item.FreightValue
	}

	body := map[string]string{
		"to":      event.CustomerID + "@example.com",
		"subject": "Order Received: " + event.OrderID,
		"body":    fmt.Sprintf("Your order %s with %d item(s) was registered for a total of $%.2f.", event.OrderID, len(event.Items), total),
	}

	if err := h.sendEmail(ctx, body); err != nil {
		h.logger.Error("failed to send confirmation email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	h.logger.Info("order confirmation sent", "order_id", event.OrderID)
	return nil
}

func (h *ConfirmationHandler) sendEmail(ctx context.Context, body map[string]string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	return nil
}
