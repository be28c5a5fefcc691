package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Handler struct {
	repo   *CatalogRepository
	logger *slog.Logger
}

func NewHandler(repo *CatalogRepository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.repo.ListCustomers(r.Context())
	if err != nil {
		h.logger.Error("failed to list customers", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("customers listed", "count", len(customers))
	h.writeJSON(w, http.StatusOK, customers)
}

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("products listed", "count", len(products))
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleItemStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.ItemStats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute item stats", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
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
