package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lunch-tray/internal/common"
	"github.com/noah-isme/lunch-tray/internal/menu"
	"github.com/noah-isme/lunch-tray/internal/pricing"
)

// Formatter renders raw amounts for API consumers.
type Formatter interface {
	Format(amount pricing.Money) string
	Currency() string
}

// Handler exposes the session's order over HTTP.
type Handler struct {
	Session   *Session
	Formatter Formatter
	Logger    zerolog.Logger
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type selectRequest struct {
	Name string `json:"name" validate:"required"`
}

// ItemResponse is the API shape of a selected item.
type ItemResponse struct {
	Name           string        `json:"name"`
	Title          string        `json:"title"`
	Price          pricing.Money `json:"price"`
	PriceFormatted string        `json:"price_formatted"`
}

// Response is the API shape of an order.
type Response struct {
	OrderID           string        `json:"order_id"`
	Entree            *ItemResponse `json:"entree"`
	Side              *ItemResponse `json:"side"`
	Accompaniment     *ItemResponse `json:"accompaniment"`
	Subtotal          pricing.Money `json:"subtotal"`
	Tax               pricing.Money `json:"tax"`
	Total             pricing.Money `json:"total"`
	SubtotalFormatted string        `json:"subtotal_formatted"`
	TaxFormatted      string        `json:"tax_formatted"`
	TotalFormatted    string        `json:"total_formatted"`
	TaxRateBps        int           `json:"tax_rate_bps"`
	Currency          string        `json:"currency"`
}

// Routes mounts the order endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Get)
	r.Get("/stream", h.Stream)
	r.Post("/recompute", h.Recompute)
	r.Post("/submit", h.Submit)
	r.Post("/cancel", h.Cancel)
	r.Put("/{category}", h.Select)
}

// Get handles GET /api/v1/order.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	common.Data(w, http.StatusOK, h.render(h.Session.Current()))
}

// Select handles PUT /api/v1/order/{category}.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	category, ok := menu.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "unknown category", map[string]any{"allowed": menu.Categories()})
		return
	}
	var payload selectRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "name is required", nil)
		return
	}
	view, err := h.Session.Select(category, payload.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, h.render(view))
}

// Recompute handles POST /api/v1/order/recompute.
func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	common.Data(w, http.StatusOK, h.render(h.Session.Recompute()))
}

// Submit handles POST /api/v1/order/submit.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	submitted, next, err := h.Session.Submit(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": h.render(submitted),
		"next": h.render(next),
	})
}

// Cancel handles POST /api/v1/order/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	canceled, next, err := h.Session.Cancel(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": h.render(canceled),
		"next": h.render(next),
	})
}

// Stream handles GET /api/v1/order/stream as server-sent events.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	updates := make(chan View, 16)
	cancel := h.Session.Watch(func(v View) {
		select {
		case updates <- v:
		default:
			// Slow consumer; it will catch up on the next change.
		}
	})
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case v := <-updates:
			data, err := json.Marshal(h.render(v))
			if err != nil {
				h.Logger.Error().Err(err).Msg("encode order event")
				return
			}
			if _, err := fmt.Fprintf(w, "event: order\ndata: %s\n\n", data); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				h.Logger.Debug().Err(err).Msg("flush order stream")
			}
		}
	}
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.Session == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "order session not configured", nil)
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownItem):
		common.WriteError(w, common.NewAppError(common.CodeUnknownItem, err.Error(), http.StatusNotFound, err))
	case errors.Is(err, ErrUnknownCategory):
		common.WriteError(w, common.NewAppError(common.CodeBadRequest, err.Error(), http.StatusBadRequest, err))
	case errors.Is(err, ErrEmptyOrder):
		common.WriteError(w, common.NewAppError(common.CodeConflict, err.Error(), http.StatusConflict, err))
	default:
		h.Logger.Error().Err(err).Msg("order request failed")
		common.WriteError(w, err)
	}
}

func (h *Handler) render(v View) Response {
	return Response{
		OrderID:           v.OrderID.String(),
		Entree:            h.renderItem(v.Entree),
		Side:              h.renderItem(v.Side),
		Accompaniment:     h.renderItem(v.Accompaniment),
		Subtotal:          v.Subtotal,
		Tax:               v.Tax,
		Total:             v.Total,
		SubtotalFormatted: h.format(v.Subtotal),
		TaxFormatted:      h.format(v.Tax),
		TotalFormatted:    h.format(v.Total),
		TaxRateBps:        v.TaxBps,
		Currency:          h.currency(),
	}
}

func (h *Handler) renderItem(it *menu.Item) *ItemResponse {
	if it == nil {
		return nil
	}
	return &ItemResponse{
		Name:           it.Name,
		Title:          it.Title,
		Price:          it.Price,
		PriceFormatted: h.format(it.Price),
	}
}

func (h *Handler) format(amount pricing.Money) string {
	if h.Formatter == nil {
		return ""
	}
	return h.Formatter.Format(amount)
}

func (h *Handler) currency() string {
	if h.Formatter == nil {
		return ""
	}
	return h.Formatter.Currency()
}
