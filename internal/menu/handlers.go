package menu

import (
	"net/http"

	"github.com/noah-isme/lunch-tray/internal/common"
	"github.com/noah-isme/lunch-tray/internal/pricing"
)

// Formatter renders raw amounts for API consumers.
type Formatter interface {
	Format(amount pricing.Money) string
}

// Handler exposes the catalog for list rendering.
type Handler struct {
	Catalog   *Catalog
	Formatter Formatter
}

// ItemResponse is the API shape of a menu item.
type ItemResponse struct {
	Name           string        `json:"name"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Price          pricing.Money `json:"price"`
	PriceFormatted string        `json:"price_formatted,omitempty"`
}

// List handles GET /api/v1/menu.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "menu catalog not configured", nil)
		return
	}
	grouped := make(map[Category][]ItemResponse, len(Categories()))
	for _, c := range Categories() {
		grouped[c] = []ItemResponse{}
	}
	for _, it := range h.Catalog.Items() {
		resp := ItemResponse{
			Name:        it.Name,
			Title:       it.Title,
			Description: it.Description,
			Price:       it.Price,
		}
		if h.Formatter != nil {
			resp.PriceFormatted = h.Formatter.Format(it.Price)
		}
		grouped[it.Category] = append(grouped[it.Category], resp)
	}
	common.Data(w, http.StatusOK, grouped)
}
