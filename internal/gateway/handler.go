package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Handler is the edge the entry form talks to. It forwards /api/* calls
// to the catalog and orders services, stripping the /api prefix.
type Handler struct {
	catalogProxy *ServiceProxy
	ordersProxy  *ServiceProxy
	logger       *slog.Logger
}

func NewHandler(catalogProxy, ordersProxy *ServiceProxy, logger *slog.Logger) *Handler {
	return &Handler{
		catalogProxy: catalogProxy,
		ordersProxy:  ordersProxy,
		logger:       logger,
	}
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.catalogProxy, strings.TrimPrefix(r.URL.Path, "/api"))
}

func (h *Handler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.ordersProxy, strings.TrimPrefix(r.URL.Path, "/api"))
}

func (h *Handler) proxyRequest(w http.ResponseWriter, r *http.Request, proxy *ServiceProxy, path string) {
	resp, err := proxy.ForwardRequest(r.Context(), r, path)
	if err != nil {
		h.logger.Error("failed to forward request", "error", err, "path", path)
		h.writeError(w, http.StatusBadGateway, "service unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	w.WriteHeader(resp.StatusCode)

	h.logger.Info("request proxied", "method", r.Method, "path", path, "status", resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Error("failed to copy response body", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
