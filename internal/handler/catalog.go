package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/cesta/internal/model"
	"github.com/dukerupert/cesta/internal/shopping"
	"github.com/dukerupert/cesta/internal/websocket"
)

type CatalogHandler struct {
	svc    *shopping.Service
	notify notifier
	logger *slog.Logger
}

func NewCatalogHandler(svc *shopping.Service, hub *websocket.Hub, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, notify: notifier{hub: hub}, logger: logger}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type storeRequest struct {
	Name       string   `json:"name" validate:"required,max=100"`
	Color      string   `json:"color" validate:"max=30"`
	AisleOrder []string `json:"aisle_order" validate:"dive,required"`
}

type productRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	CategoryID  string     `json:"category_id" validate:"required"`
	Unit        model.Unit `json:"unit" validate:"omitempty,oneof=kg l u"`
	Brand       string     `json:"brand" validate:"max=100"`
	Size        string     `json:"size" validate:"max=50"`
	Aliases     []string   `json:"aliases" validate:"dive,required"`
	HealthScore *int       `json:"health_score" validate:"omitempty,min=1,max=5"`
}

func (req productRequest) input() shopping.ProductInput {
	return shopping.ProductInput{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Unit:        req.Unit,
		Brand:       req.Brand,
		Size:        req.Size,
		Aliases:     req.Aliases,
		HealthScore: req.HealthScore,
	}
}

type aliasesRequest struct {
	Aliases []string `json:"aliases" validate:"required,min=1,dive,required"`
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Categories())
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode category", err)
		return
	}
	c, err := h.svc.CreateCategory(req.Name)
	if err != nil {
		writeError(w, h.logger, "create category", err)
		return
	}
	h.notify.catalog("category", "created", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stores())
}

func (h *CatalogHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode store", err)
		return
	}
	st, err := h.svc.CreateStore(shopping.StoreInput{Name: req.Name, Color: req.Color, AisleOrder: req.AisleOrder})
	if err != nil {
		writeError(w, h.logger, "create store", err)
		return
	}
	h.notify.catalog("store", "created", st.ID)
	writeJSON(w, http.StatusCreated, st)
}

func (h *CatalogHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode store", err)
		return
	}
	st, err := h.svc.UpdateStore(r.PathValue("id"), shopping.StoreInput{Name: req.Name, Color: req.Color, AisleOrder: req.AisleOrder})
	if err != nil {
		writeError(w, h.logger, "update store", err)
		return
	}
	h.notify.catalog("store", "updated", st.ID)
	writeJSON(w, http.StatusOK, st)
}

// ListProducts returns the catalog, filtered by the q query parameter when
// present.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		writeJSON(w, http.StatusOK, h.svc.SearchProducts(q))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Products())
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Product(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "get product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode product", err)
		return
	}
	p, err := h.svc.CreateProduct(req.input())
	if err != nil {
		writeError(w, h.logger, "create product", err)
		return
	}
	h.notify.catalog("product", "created", p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode product", err)
		return
	}
	p, err := h.svc.UpdateProduct(r.PathValue("id"), req.input())
	if err != nil {
		writeError(w, h.logger, "update product", err)
		return
	}
	h.notify.catalog("product", "updated", p.ID)
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct removes the product with its prices and list items.
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteProduct(id); err != nil {
		writeError(w, h.logger, "delete product", err)
		return
	}
	h.notify.catalog("product", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) AddAliases(w http.ResponseWriter, r *http.Request) {
	var req aliasesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode aliases", err)
		return
	}
	p, err := h.svc.AddAliases(r.PathValue("id"), req.Aliases...)
	if err != nil {
		writeError(w, h.logger, "add aliases", err)
		return
	}
	h.notify.catalog("product", "updated", p.ID)
	writeJSON(w, http.StatusOK, p)
}
