package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olist-labs/order-entry/internal/domain"
)

type emailCapture struct {
	mu     sync.Mutex
	emails []map[string]string
}

func (e *emailCapture) handler(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	e.mu.Lock()
	e.emails = append(e.emails, req)
	e.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, `{"status":"sent"}`)
}

func (e *emailCapture) getEmails() []map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]map[string]string, len(e.emails))
	copy(result, e.emails)
	return result
}

func TestConfirmationHandler_Handle(t *testing.T) {
	capture := &emailCapture{}
	emailServer := httptest.NewServer(http.HandlerFunc(capture.handler))
	defer emailServer.Close()

	handler := NewConfirmationHandler(
		emailServer.URL,
		emailServer.Client(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	event := domain.OrderPlacedEvent{
		OrderID:    "order-abc",
		CustomerID: "c-001",
		Items: []domain.OrderItem{
			{ProductID: "p-001", Price: 10.00, FreightValue: 2.50, SellerID: "s-100"},
			{ProductID: "p-002", Price: 5.00, FreightValue: 1.00, SellerID: "s-200"},
		},
		PlacedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	if err := handler.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	emails := capture.getEmails()
	if len(emails) != 1 {
		t.Fatalf("expected 1 email, got %d", len(emails))
	}

	email := emails[0]
	if email["to"] != "c-001@example.com" {
		t.Errorf("unexpected recipient: %s", email["to"])
	}
	if !strings.Contains(email["subject"], "order-abc") {
		t.Errorf("expected subject to contain order id, got: %s", email["subject"])
	}
	if !strings.Contains(email["body"], "$18.50") {
		t.Errorf("expected body to contain total $18.50, got: %s", email["body"])
	}
}

func TestConfirmationHandler_Handle_BadPayload(t *testing.T) {
	handler := NewConfirmationHandler(
		"http://unused",
		http.DefaultClient,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	if err := handler.Handle(context.Background(), []byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload, got nil")
	}
}

func TestConfirmationHandler_Handle_EmailServiceFailure(t *testing.T) {
	emailServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer emailServer.Close()

	handler := NewConfirmationHandler(
		emailServer.URL,
		emailServer.Client(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	payload, _ := json.Marshal(domain.OrderPlacedEvent{OrderID: "order-abc", CustomerID: "c-001"})

	if err := handler.Handle(context.Background(), payload); err == nil {
		t.Fatal("expected error when email service fails, got nil")
	}
}
