package shopping

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/cesta/internal/model"
	"github.com/dukerupert/cesta/internal/store"
)

// Strategy decides what AddItem does when a product is sold at more than
// one store and no store was given.
type Strategy string

const (
	// StrategyChoose returns a Selection for the caller to resolve.
	StrategyChoose Strategy = "choose"
	// StrategyBest takes the best price without asking.
	StrategyBest Strategy = "best"
)

type AddItemRequest struct {
	ListID    string
	ProductID string
	StoreID   string
	// Quantity defaults to 1.
	Quantity int
	Strategy Strategy
}

// Selection is an add that waits for the caller to pick a store. Nothing
// has been written when a Selection is returned; dropping it cancels the
// add.
type Selection struct {
	ListID    string              `json:"list_id"`
	ProductID string              `json:"product_id"`
	Quantity  int                 `json:"quantity"`
	Options   []model.StoreOption `json:"options"`
}

// AddResult holds either the added or merged item, or a pending Selection.
type AddResult struct {
	Item      *model.ListItem `json:"item,omitempty"`
	Selection *Selection      `json:"selection,omitempty"`
}

// --- Lists ---

// Lists returns the lists the user belongs to.
func (s *Service) Lists(actorID string) []model.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists.ListForUser(actorID)
}

func (s *Service) List(actorID, listID string) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access(actorID, listID, nil)
}

// CreateList creates an empty list owned by the actor.
func (s *Service) CreateList(actorID, name string) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return model.List{}, s.record("create_list", newError(KindValidation, "list name is required"))
	}
	if actorID == "" {
		return model.List{}, s.record("create_list", newError(KindValidation, "list owner is required"))
	}
	l := s.lists.Create(name, actorID, s.now())
	return l, s.record("create_list", nil)
}

func (s *Service) RenameList(actorID, listID, name string) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, model.Role.CanManage)
	if err != nil {
		return model.List{}, s.record("rename_list", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.List{}, s.record("rename_list", newError(KindValidation, "list name is required"))
	}
	l.Name = name
	s.lists.Put(l)
	return l, s.record("rename_list", nil)
}

// ClearList removes every item from the list.
func (s *Service) ClearList(actorID, listID string) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, model.Role.CanEdit)
	if err != nil {
		return model.List{}, s.record("clear_list", err)
	}
	l.Items = []model.ListItem{}
	s.lists.Put(l)
	return l, s.record("clear_list", nil)
}

// access loads a list for the actor. Users who are not members get
// not_found; members whose role fails need get forbidden.
func (s *Service) access(actorID, listID string, need func(model.Role) bool) (model.List, error) {
	l, ok := s.lists.Get(listID)
	if !ok {
		return model.List{}, newError(KindNotFound, "list %s not found", listID)
	}
	role, ok := l.Members[actorID]
	if !ok {
		return model.List{}, newError(KindNotFound, "list %s not found", listID)
	}
	if need != nil && !need(role) {
		return model.List{}, newError(KindForbidden, "role %s may not do that on this list", role)
	}
	return l, nil
}

// --- Adding ---

// AddItem puts quantity of a product on a list, merging into the existing
// item for the same product and store.
//
// With a store given, the store's current price is used and a missing price
// fails with ErrNoPriceForStore. Without one, a product with no prices fails
// with ErrNoPriceRecords, a product sold at a single store goes there, and a
// product sold at several stores either returns a Selection or, with
// StrategyBest, goes to the best price.
func (s *Service) AddItem(actorID string, req AddItemRequest) (AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.addItem(actorID, req)
	return res, s.record("add_item", err)
}

func (s *Service) addItem(actorID string, req AddItemRequest) (AddResult, error) {
	l, err := s.access(actorID, req.ListID, model.Role.CanEdit)
	if err != nil {
		return AddResult{}, err
	}
	p, ok := s.catalog.GetProduct(req.ProductID)
	if !ok {
		return AddResult{}, newError(KindNotFound, "product %s not found", req.ProductID)
	}
	qty, err := addQuantity(req.Quantity)
	if err != nil {
		return AddResult{}, err
	}

	if req.StoreID != "" {
		r, ok := s.prices.PriceAt(p.ID, req.StoreID)
		if !ok {
			return AddResult{}, newError(KindNoPriceForStore, "%s has no price at the selected store", p.Name)
		}
		item := mergeOrCreate(&l, p.ID, r.StoreID, qty, r.Price)
		s.lists.Put(l)
		return AddResult{Item: &item}, nil
	}

	opts := s.prices.StoreOptions(p.ID)
	switch {
	case len(opts) == 0:
		return AddResult{}, newError(KindNoPriceRecords, "%s has no recorded prices", p.Name)
	case len(opts) == 1:
		item := mergeOrCreate(&l, p.ID, opts[0].StoreID, qty, opts[0].Price)
		s.lists.Put(l)
		return AddResult{Item: &item}, nil
	case req.Strategy == StrategyBest:
		best, _ := s.prices.BestPrice(p.ID)
		item := mergeOrCreate(&l, p.ID, best.StoreID, qty, best.Price)
		s.lists.Put(l)
		return AddResult{Item: &item}, nil
	case req.Strategy == "" || req.Strategy == StrategyChoose:
		return AddResult{Selection: &Selection{
			ListID:    l.ID,
			ProductID: p.ID,
			Quantity:  qty,
			Options:   opts,
		}}, nil
	default:
		return AddResult{}, newError(KindValidation, "unknown add strategy %q", req.Strategy)
	}
}

// CompleteSelection finishes a suspended add at the chosen store, using the
// price offered for it.
func (s *Service) CompleteSelection(actorID string, sel Selection, storeID string) (model.ListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.completeSelection(actorID, sel, storeID)
	return item, s.record("complete_selection", err)
}

func (s *Service) completeSelection(actorID string, sel Selection, storeID string) (model.ListItem, error) {
	var chosen *model.StoreOption
	for i := range sel.Options {
		if sel.Options[i].StoreID == storeID {
			chosen = &sel.Options[i]
			break
		}
	}
	if chosen == nil {
		return model.ListItem{}, newError(KindValidation, "store %s was not one of the offered options", storeID)
	}
	l, err := s.access(actorID, sel.ListID, model.Role.CanEdit)
	if err != nil {
		return model.ListItem{}, err
	}
	if _, ok := s.catalog.GetProduct(sel.ProductID); !ok {
		return model.ListItem{}, newError(KindNotFound, "product %s not found", sel.ProductID)
	}
	qty, err := addQuantity(sel.Quantity)
	if err != nil {
		return model.ListItem{}, err
	}
	item := mergeOrCreate(&l, sel.ProductID, chosen.StoreID, qty, chosen.Price)
	s.lists.Put(l)
	return item, nil
}

func addQuantity(q int) (int, error) {
	switch {
	case q == 0:
		return 1, nil
	case q < 0:
		return 0, newError(KindValidation, "quantity must be positive")
	}
	return q, nil
}

// mergeOrCreate adds qty to the item for (productID, storeID), or appends a
// new pending item snapshotting price. The merged item keeps its status and
// snapshot.
func mergeOrCreate(l *model.List, productID, storeID string, qty int, price decimal.Decimal) model.ListItem {
	for i := range l.Items {
		if l.Items[i].ProductID == productID && l.Items[i].StoreID == storeID {
			l.Items[i].Quantity += qty
			return l.Items[i]
		}
	}
	item := model.ListItem{
		ID:            store.NewID("item"),
		ProductID:     productID,
		StoreID:       storeID,
		Quantity:      qty,
		Status:        model.StatusPending,
		PriceSnapshot: price,
	}
	l.Items = append(l.Items, item)
	return item
}

// --- Removing and quantities ---

// DecrementItem lowers the first matching item's quantity by one, removing
// it at one. An empty storeID matches any store. A missing item is not an
// error.
func (s *Service) DecrementItem(actorID, listID, productID, storeID string) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, model.Role.CanEdit)
	if err != nil {
		return model.List{}, s.record("decrement_item", err)
	}
	for i, item := range l.Items {
		if item.ProductID != productID || (storeID != "" && item.StoreID != storeID) {
			continue
		}
		if item.Quantity > 1 {
			l.Items[i].Quantity--
		} else {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
		}
		s.lists.Put(l)
		break
	}
	return l, s.record("decrement_item", nil)
}

// SetQuantity sets the quantity of the item for (productID, storeID).
// Negative quantities count as zero and zero removes the item. When the item
// is absent it is created at the store's current price, or nothing happens
// if the store has no price.
func (s *Service) SetQuantity(actorID, listID, productID, storeID string, quantity int) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, model.Role.CanEdit)
	if err != nil {
		return model.List{}, s.record("set_quantity", err)
	}
	if storeID == "" {
		return model.List{}, s.record("set_quantity", newError(KindValidation, "store is required"))
	}
	quantity = max(quantity, 0)

	idx := -1
	for i, item := range l.Items {
		if item.ProductID == productID && item.StoreID == storeID {
			idx = i
			break
		}
	}
	switch {
	case idx >= 0 && quantity == 0:
		l.Items = append(l.Items[:idx], l.Items[idx+1:]...)
	case idx >= 0:
		l.Items[idx].Quantity = quantity
	case quantity > 0:
		r, ok := s.prices.PriceAt(productID, storeID)
		if !ok {
			return l, s.record("set_quantity", nil)
		}
		mergeOrCreate(&l, productID, storeID, quantity, r.Price)
	default:
		return l, s.record("set_quantity", nil)
	}
	s.lists.Put(l)
	return l, s.record("set_quantity", nil)
}

// SetQuantityAll sets quantity on every item of the product, restricted to
// one store when storeID is not empty.
func (s *Service) SetQuantityAll(actorID, listID, productID, storeID string, quantity int) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, model.Role.CanEdit)
	if err != nil {
		return model.List{}, s.record("set_quantity_all", err)
	}
	if quantity <= 0 {
		return model.List{}, s.record("set_quantity_all", newError(KindValidation, "quantity must be positive"))
	}
	for i, item := range l.Items {
		if item.ProductID == productID && (storeID == "" || item.StoreID == storeID) {
			l.Items[i].Quantity = quantity
		}
	}
	s.lists.Put(l)
	return l, s.record("set_quantity_all", nil)
}

// RemoveProduct drops every item of the product from the list, restricted to
// one store when storeID is not empty.
func (s *Service) RemoveProduct(actorID, listID, productID, storeID string) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, model.Role.CanEdit)
	if err != nil {
		return model.List{}, s.record("remove_product", err)
	}
	removeProductItems(&l, productID, storeID)
	s.lists.Put(l)
	return l, s.record("remove_product", nil)
}

func removeProductItems(l *model.List, productID, storeID string) {
	kept := l.Items[:0]
	for _, item := range l.Items {
		if item.ProductID == productID && (storeID == "" || item.StoreID == storeID) {
			continue
		}
		kept = append(kept, item)
	}
	l.Items = kept
}

// DeleteItem removes an item by id whatever its quantity or status.
func (s *Service) DeleteItem(actorID, listID, itemID string) (model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, model.Role.CanEdit)
	if err != nil {
		return model.List{}, s.record("delete_item", err)
	}
	idx := itemIndex(l, itemID)
	if idx < 0 {
		return model.List{}, s.record("delete_item", newError(KindNotFound, "item %s not found", itemID))
	}
	l.Items = append(l.Items[:idx], l.Items[idx+1:]...)
	s.lists.Put(l)
	return l, s.record("delete_item", nil)
}

func itemIndex(l model.List, itemID string) int {
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// --- Picking ---

// SetItemStatus moves an item to status. Entering picked from any other
// status records who picked it and when; leaving picked clears both and always
// lands on pending. Other changes copy the status as given.
func (s *Service) SetItemStatus(actorID, listID, itemID string, status model.ItemStatus) (model.ListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.setItemStatus(actorID, listID, itemID, func(model.ItemStatus) model.ItemStatus { return status })
	return item, s.record("set_item_status", err)
}

// ToggleItem flips an item between pending and picked.
func (s *Service) ToggleItem(actorID, listID, itemID string) (model.ListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.setItemStatus(actorID, listID, itemID, func(cur model.ItemStatus) model.ItemStatus {
		if cur == model.StatusPicked {
			return model.StatusPending
		}
		return model.StatusPicked
	})
	return item, s.record("toggle_item", err)
}

func (s *Service) setItemStatus(actorID, listID, itemID string, next func(model.ItemStatus) model.ItemStatus) (model.ListItem, error) {
	l, err := s.access(actorID, listID, model.Role.CanEdit)
	if err != nil {
		return model.ListItem{}, err
	}
	idx := itemIndex(l, itemID)
	if idx < 0 {
		return model.ListItem{}, newError(KindNotFound, "item %s not found", itemID)
	}
	item := &l.Items[idx]
	status := next(item.Status)
	if !status.Valid() {
		return model.ListItem{}, newError(KindValidation, "unknown status %q", status)
	}

	switch {
	case item.Status != model.StatusPicked && status == model.StatusPicked:
		now := s.now()
		item.Status = model.StatusPicked
		item.PickedBy = actorID
		item.PickedAt = &now
	case item.Status == model.StatusPicked && status != model.StatusPicked:
		item.Status = model.StatusPending
		item.PickedBy = ""
		item.PickedAt = nil
	default:
		item.Status = status
	}

	out := *item
	s.lists.Put(l)
	return out, nil
}
