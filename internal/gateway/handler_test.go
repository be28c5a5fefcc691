package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler_HandleOrders(t *testing.T) {
	t.Run("strips /api prefix and proxies POST /orders with body", func(t *testing.T) {
		ordersServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/orders" {
				t.Errorf("expected /orders, got %s", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"customer_id":"c-001"}` {
				t.Errorf("unexpected body: %s", body)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"order_id":"new-id"}`))
		}))
		defer ordersServer.Close()

		handler := NewHandler(
			NewServiceProxy("http://unused", http.DefaultClient),
			NewServiceProxy(ordersServer.URL, ordersServer.Client()),
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"customer_id":"c-001"}`))
		rec := httptest.NewRecorder()

		handler.HandleOrders(rec, req)

		if rec.Code != http.StatusCreated {
			t.Errorf("expected status 201, got %d", rec.Code)
		}
		if rec.Body.String() != `{"order_id":"new-id"}` {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("forwards query string", func(t *testing.T) {
		ordersServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/orders/recent" {
				t.Errorf("expected /orders/recent, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("limit") != "5" {
				t.Errorf("expected limit=5, got %s", r.URL.RawQuery)
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`[]`))
		}))
		defer ordersServer.Close()

		handler := NewHandler(
			NewServiceProxy("http://unused", http.DefaultClient),
			NewServiceProxy(ordersServer.URL, ordersServer.Client()),
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/recent?limit=5", nil)
		rec := httptest.NewRecorder()

		handler.HandleOrders(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("returns 502 when orders service unavailable", func(t *testing.T) {
		handler := NewHandler(
			NewServiceProxy("http://unused", http.DefaultClient),
			NewServiceProxy("http://localhost:99999", &http.Client{}),
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/recent", nil)
		rec := httptest.NewRecorder()

		handler.HandleOrders(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", rec.Code)
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["error"] != "service unavailable" {
			t.Errorf("expected 'service unavailable', got %s", resp["error"])
		}
	})
}

func TestHandler_HandleCatalog(t *testing.T) {
	t.Run("forwards catalog reads to the catalog service", func(t *testing.T) {
		catalogServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/products/stats" {
				t.Errorf("expected /products/stats, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"p-001":{"mean_price":30,"mean_freight":5,"sellers":["s-100"]}}`))
		}))
		defer catalogServer.Close()

		handler := NewHandler(
			NewServiceProxy(catalogServer.URL, catalogServer.Client()),
			NewServiceProxy("http://unused", http.DefaultClient),
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/products/stats", nil)
		rec := httptest.NewRecorder()

		handler.HandleCatalog(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		if rec.Header().Get("Content-Type") != "application/json" {
			t.Errorf("expected application/json, got %s", rec.Header().Get("Content-Type"))
		}
	})

	t.Run("preserves downstream error status", func(t *testing.T) {
		catalogServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		}))
		defer catalogServer.Close()

		handler := NewHandler(
			NewServiceProxy(catalogServer.URL, catalogServer.Client()),
			NewServiceProxy("http://unused", http.DefaultClient),
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
		rec := httptest.NewRecorder()

		handler.HandleCatalog(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
	})

	t.Run("returns 502 when catalog service unavailable", func(t *testing.T) {
		handler := NewHandler(
			NewServiceProxy("http://localhost:99999", &http.Client{}),
			NewServiceProxy("http://unused", http.DefaultClient),
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
		rec := httptest.NewRecorder()

		handler.HandleCatalog(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", rec.Code)
		}
	})
}
