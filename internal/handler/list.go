package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/cesta/internal/auth"
	"github.com/dukerupert/cesta/internal/model"
	"github.com/dukerupert/cesta/internal/shopping"
	"github.com/dukerupert/cesta/internal/store"
	"github.com/dukerupert/cesta/internal/voice"
	"github.com/dukerupert/cesta/internal/websocket"
)

type ListHandler struct {
	svc       *shopping.Service
	userStore *store.UserStore
	resolver  voice.Resolver
	notify    notifier
	logger    *slog.Logger
}

func NewListHandler(svc *shopping.Service, us *store.UserStore, resolver voice.Resolver, hub *websocket.Hub, logger *slog.Logger) *ListHandler {
	return &ListHandler{svc: svc, userStore: us, resolver: resolver, notify: notifier{hub: hub}, logger: logger}
}

type listRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type addItemRequest struct {
	ProductID string            `json:"product_id" validate:"required"`
	StoreID   string            `json:"store_id"`
	Quantity  int               `json:"quantity" validate:"min=0"`
	Strategy  shopping.Strategy `json:"strategy" validate:"omitempty,oneof=choose best"`
}

type selectStoreRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	StoreID   string `json:"store_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

type productItemsRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	StoreID   string `json:"store_id"`
}

type quantityRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	StoreID   string `json:"store_id"`
	Quantity  int    `json:"quantity"`
	// All sets the quantity on every item of the product instead of the
	// single item at StoreID.
	All bool `json:"all"`
}

type statusRequest struct {
	Status model.ItemStatus `json:"status" validate:"required,oneof=pending picked"`
}

type memberRequest struct {
	Email string     `json:"email" validate:"required,email"`
	Role  model.Role `json:"role" validate:"required,oneof=admin editor viewer"`
}

type roleRequest struct {
	Role model.Role `json:"role" validate:"required,oneof=admin editor viewer"`
}

type voiceRequest struct {
	Transcript string `json:"transcript" validate:"required,max=500"`
}

func (h *ListHandler) Lists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Lists(auth.UserID(r.Context())))
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode list", err)
		return
	}
	l, err := h.svc.CreateList(auth.UserID(r.Context()), req.Name)
	if err != nil {
		writeError(w, h.logger, "create list", err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.List(auth.UserID(r.Context()), r.PathValue("list_id"))
	if err != nil {
		writeError(w, h.logger, "get list", err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode list", err)
		return
	}
	l, err := h.svc.RenameList(auth.UserID(r.Context()), r.PathValue("list_id"), req.Name)
	if err != nil {
		writeError(w, h.logger, "rename list", err)
		return
	}
	h.notify.list(l, "list", "updated", l.ID)
	writeJSON(w, http.StatusOK, l)
}

func (h *ListHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(auth.UserID(r.Context()), r.PathValue("list_id"))
	if err != nil {
		writeError(w, h.logger, "list summary", err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// AddItem answers 201 with the item, or 202 with the store options when
// the caller has to pick a store first.
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode item", err)
		return
	}
	actor, listID := auth.UserID(r.Context()), r.PathValue("list_id")
	res, err := h.svc.AddItem(actor, shopping.AddItemRequest{
		ListID:    listID,
		ProductID: req.ProductID,
		StoreID:   req.StoreID,
		Quantity:  req.Quantity,
		Strategy:  req.Strategy,
	})
	if err != nil {
		writeError(w, h.logger, "add item", err)
		return
	}
	if res.Selection != nil {
		writeJSON(w, http.StatusAccepted, res.Selection)
		return
	}
	h.notifyItem(actor, listID, "created", res.Item.ID)
	writeJSON(w, http.StatusCreated, res.Item)
}

// SelectStore finishes an add that was answered with 202.
func (h *ListHandler) SelectStore(w http.ResponseWriter, r *http.Request) {
	var req selectStoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode selection", err)
		return
	}
	actor, listID := auth.UserID(r.Context()), r.PathValue("list_id")
	opts, err := h.svc.StoreOptions(req.ProductID)
	if err != nil {
		writeError(w, h.logger, "store options", err)
		return
	}
	item, err := h.svc.CompleteSelection(actor, shopping.Selection{
		ListID:    listID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Options:   opts,
	}, req.StoreID)
	if err != nil {
		writeError(w, h.logger, "complete selection", err)
		return
	}
	h.notifyItem(actor, listID, "created", item.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (h *ListHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	var req productItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode decrement", err)
		return
	}
	l, err := h.svc.DecrementItem(auth.UserID(r.Context()), r.PathValue("list_id"), req.ProductID, req.StoreID)
	if err != nil {
		writeError(w, h.logger, "decrement item", err)
		return
	}
	h.notify.list(l, "list_item", "updated", "")
	writeJSON(w, http.StatusOK, l)
}

func (h *ListHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode quantity", err)
		return
	}
	actor, listID := auth.UserID(r.Context()), r.PathValue("list_id")
	var (
		l   model.List
		err error
	)
	if req.All {
		l, err = h.svc.SetQuantityAll(actor, listID, req.ProductID, req.StoreID, req.Quantity)
	} else {
		l, err = h.svc.SetQuantity(actor, listID, req.ProductID, req.StoreID, req.Quantity)
	}
	if err != nil {
		writeError(w, h.logger, "set quantity", err)
		return
	}
	h.notify.list(l, "list_item", "updated", "")
	writeJSON(w, http.StatusOK, l)
}

// RemoveProduct drops every item of a product, optionally only at one store.
func (h *ListHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	var req productItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode remove", err)
		return
	}
	l, err := h.svc.RemoveProduct(auth.UserID(r.Context()), r.PathValue("list_id"), req.ProductID, req.StoreID)
	if err != nil {
		writeError(w, h.logger, "remove product", err)
		return
	}
	h.notify.list(l, "list_item", "deleted", "")
	writeJSON(w, http.StatusOK, l)
}

func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	l, err := h.svc.DeleteItem(auth.UserID(r.Context()), r.PathValue("list_id"), id)
	if err != nil {
		writeError(w, h.logger, "delete item", err)
		return
	}
	h.notify.list(l, "list_item", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode status", err)
		return
	}
	actor, listID := auth.UserID(r.Context()), r.PathValue("list_id")
	item, err := h.svc.SetItemStatus(actor, listID, r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, h.logger, "set item status", err)
		return
	}
	h.notifyItem(actor, listID, "updated", item.ID)
	writeJSON(w, http.StatusOK, item)
}

func (h *ListHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	actor, listID := auth.UserID(r.Context()), r.PathValue("list_id")
	item, err := h.svc.ToggleItem(actor, listID, r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "toggle item", err)
		return
	}
	h.notifyItem(actor, listID, "updated", item.ID)
	writeJSON(w, http.StatusOK, item)
}

func (h *ListHandler) Clear(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.ClearList(auth.UserID(r.Context()), r.PathValue("list_id"))
	if err != nil {
		writeError(w, h.logger, "clear list", err)
		return
	}
	h.notify.list(l, "list", "cleared", l.ID)
	writeJSON(w, http.StatusOK, l)
}

func (h *ListHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.Members(auth.UserID(r.Context()), r.PathValue("list_id"))
	if err != nil {
		writeError(w, h.logger, "list members", err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// AddMember shares the list with a registered user, found by email.
func (h *ListHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode member", err)
		return
	}
	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		writeError(w, h.logger, "find member", err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "no user with email " + strings.ToLower(req.Email), Code: string(shopping.KindNotFound)})
		return
	}
	l, err := h.svc.AddMember(auth.UserID(r.Context()), r.PathValue("list_id"), user.ID, req.Role)
	if err != nil {
		writeError(w, h.logger, "add member", err)
		return
	}
	h.notify.list(l, "list_member", "created", user.ID)
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListHandler) SetMemberRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode role", err)
		return
	}
	userID := r.PathValue("user_id")
	l, err := h.svc.SetMemberRole(auth.UserID(r.Context()), r.PathValue("list_id"), userID, req.Role)
	if err != nil {
		writeError(w, h.logger, "set member role", err)
		return
	}
	h.notify.list(l, "list_member", "updated", userID)
	writeJSON(w, http.StatusOK, l)
}

// RemoveMember removes a member, or lets the caller leave the list.
func (h *ListHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	l, err := h.svc.RemoveMember(auth.UserID(r.Context()), r.PathValue("list_id"), userID)
	if err != nil {
		writeError(w, h.logger, "remove member", err)
		return
	}
	h.notify.list(l, "list_member", "deleted", userID, userID)
	w.WriteHeader(http.StatusNoContent)
}

// Command runs an already resolved command against the list.
func (h *ListHandler) Command(w http.ResponseWriter, r *http.Request) {
	var cmd model.Command
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, h.logger, "decode command", err)
		return
	}
	h.execute(w, r, cmd)
}

// Voice resolves a transcript and runs the resulting command.
func (h *ListHandler) Voice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode voice", err)
		return
	}
	cmd, err := h.resolver.Resolve(r.Context(), req.Transcript)
	if err != nil {
		writeError(w, h.logger, "resolve voice", err)
		return
	}
	h.execute(w, r, cmd)
}

func (h *ListHandler) execute(w http.ResponseWriter, r *http.Request, cmd model.Command) {
	actor, listID := auth.UserID(r.Context()), r.PathValue("list_id")
	res, err := h.svc.Execute(actor, listID, cmd)
	if err != nil {
		writeError(w, h.logger, "execute command", err)
		return
	}
	if res.List != nil {
		h.notify.list(*res.List, "list", "updated", res.List.ID)
	}
	switch cmd.Action {
	case model.ActionCreateProduct:
		h.notify.catalog("product", "created", res.Product.ID)
	case model.ActionUpdatePrice:
		h.notify.catalog("price", "updated", res.Price.ID)
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ListHandler) notifyItem(actor, listID, action, itemID string) {
	l, err := h.svc.List(actor, listID)
	if err != nil {
		return
	}
	h.notify.list(l, "list_item", action, itemID)
}
