package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/cesta/internal/model"
	"github.com/dukerupert/cesta/internal/shopping"
	"github.com/dukerupert/cesta/internal/websocket"
)

type PriceHandler struct {
	svc    *shopping.Service
	notify notifier
	logger *slog.Logger
}

func NewPriceHandler(svc *shopping.Service, hub *websocket.Hub, logger *slog.Logger) *PriceHandler {
	return &PriceHandler{svc: svc, notify: notifier{hub: hub}, logger: logger}
}

type priceRequest struct {
	StoreID string           `json:"store_id" validate:"required"`
	Price   *decimal.Decimal `json:"price" validate:"required"`
	// Date is YYYY-MM-DD and defaults to today.
	Date    string        `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Quality model.Quality `json:"quality" validate:"omitempty,oneof=Buena Normal Mala"`
	Notes   string        `json:"notes" validate:"max=500"`
}

type priceUpdateRequest struct {
	StoreID string           `json:"store_id"`
	Price   *decimal.Decimal `json:"price" validate:"required"`
	Date    string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Quality model.Quality    `json:"quality" validate:"omitempty,oneof=Buena Normal Mala"`
	Notes   string           `json:"notes" validate:"max=500"`
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	// Already checked by the datetime validator.
	d, _ := time.Parse(time.DateOnly, s)
	return &d
}

func (h *PriceHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.PricesFor(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "list prices", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Best returns the cheapest record, or null when the product has no prices.
func (h *PriceHandler) Best(w http.ResponseWriter, r *http.Request) {
	best, err := h.svc.BestPrice(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "best price", err)
		return
	}
	writeJSON(w, http.StatusOK, best)
}

func (h *PriceHandler) StoreOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.StoreOptions(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "store options", err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (h *PriceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode price", err)
		return
	}
	rec, err := h.svc.AddPrice(shopping.PriceInput{
		ProductID: r.PathValue("id"),
		StoreID:   req.StoreID,
		Price:     *req.Price,
		Date:      parseDate(req.Date),
		Quality:   req.Quality,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, h.logger, "add price", err)
		return
	}
	h.notify.catalog("price", "created", rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (h *PriceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req priceUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode price", err)
		return
	}
	rec, err := h.svc.UpdatePrice(r.PathValue("id"), shopping.PriceInput{
		StoreID: req.StoreID,
		Price:   *req.Price,
		Date:    parseDate(req.Date),
		Quality: req.Quality,
		Notes:   req.Notes,
	})
	if err != nil {
		writeError(w, h.logger, "update price", err)
		return
	}
	h.notify.catalog("price", "updated", rec.ID)
	writeJSON(w, http.StatusOK, rec)
}

func (h *PriceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeletePrice(id); err != nil {
		writeError(w, h.logger, "delete price", err)
		return
	}
	h.notify.catalog("price", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
