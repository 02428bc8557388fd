package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	CheckCatalog(ctx context.Context) error
}

// CatalogSizer is satisfied by menu catalogs.
type CatalogSizer interface {
	Len() int
}

// CatalogChecker reports ready once the catalog holds at least one item.
type CatalogChecker struct {
	Catalog CatalogSizer
}

// CheckCatalog implements Checker.
func (c CatalogChecker) CheckCatalog(_ context.Context) error {
	if c.Catalog == nil || c.Catalog.Len() == 0 {
		return errors.New("menu catalog empty")
	}
	return nil
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker Checker
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on dependency probes.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	catalogStatus := "ok"
	if err := h.Checker.CheckCatalog(r.Context()); err != nil {
		catalogStatus = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	if catalogStatus != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"catalog": catalogStatus})
}
