package orders

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	handler, err := NewHandler(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}
	return handler
}

// Invalid submissions must be rejected before the repository is touched;
// the handler under test carries a nil repository on purpose.
func TestHandler_HandleCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "malformed json",
			body: `{`,
			want: "invalid request body",
		},
		{
			name: "missing customer",
			body: `{"order_date":"2024-05-10T14:30:15Z","items":[{"product_id":"p-001","price":10,"freight_value":2.5,"seller_id":"s-100"}]}`,
			want: "customer_id is required",
		},
		{
			name: "missing order date",
			body: `{"customer_id":"c-001","items":[{"product_id":"p-001","price":10,"freight_value":2.5,"seller_id":"s-100"}]}`,
			want: "order_date is required",
		},
		{
			name: "empty items",
			body: `{"customer_id":"c-001","order_date":"2024-05-10T14:30:15Z","items":[]}`,
			want: "at least one item is required",
		},
		{
			name: "unknown status",
			body: `{"customer_id":"c-001","order_date":"2024-05-10T14:30:15Z","status":"teleported","items":[{"product_id":"p-001","price":10,"freight_value":2.5,"seller_id":"s-100"}]}`,
			want: `unknown status "teleported"`,
		},
		{
			name: "negative price",
			body: `{"customer_id":"c-001","order_date":"2024-05-10T14:30:15Z","items":[{"product_id":"p-001","price":-1,"freight_value":2.5,"seller_id":"s-100"}]}`,
			want: "item 0: price must not be negative",
		},
		{
			name: "negative freight",
			body: `{"customer_id":"c-001","order_date":"2024-05-10T14:30:15Z","items":[{"product_id":"p-001","price":10,"freight_value":-0.5,"seller_id":"s-100"}]}`,
			want: "item 0: freight_value must not be negative",
		},
		{
			name: "missing seller on second item",
			body: `{"customer_id":"c-001","order_date":"2024-05-10T14:30:15Z","items":[{"product_id":"p-001","price":10,"freight_value":2.5,"seller_id":"s-100"},{"product_id":"p-002","price":5,"freight_value":1}]}`,
			want: "item 1: seller_id is required",
		},
	}

	handler := newTestHandler(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.HandleCreate(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp["error"] != tt.want {
				t.Errorf("expected error %q, got %q", tt.want, resp["error"])
			}
		})
	}
}

func TestHandler_HandleListRecent_LimitValidation(t *testing.T) {
	handler := newTestHandler(t)

	for _, limit := range []string{"0", "101", "-3", "ten"} {
		t.Run("limit "+limit, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orders/recent?limit="+limit, nil)
			rec := httptest.NewRecorder()

			handler.HandleListRecent(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
		})
	}
}
