package shopping

import (
	"fmt"
	"strings"

	"github.com/dukerupert/cesta/internal/grocery"
	"github.com/dukerupert/cesta/internal/model"
)

// CommandResult describes what a command did.
type CommandResult struct {
	Action  model.Action       `json:"action"`
	Message string             `json:"message"`
	List    *model.List        `json:"list,omitempty"`
	Product *model.Product     `json:"product,omitempty"`
	Price   *model.PriceRecord `json:"price,omitempty"`
}

// Execute applies a resolved voice or text command to listID. Product and
// store names are resolved with the service matcher; names that do not
// resolve fail with ErrNotFound and missing fields with ErrValidation.
func (s *Service) Execute(actorID, listID string, cmd model.Command) (CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.execute(actorID, listID, cmd)
	return res, s.record(commandOp(cmd.Action), err)
}

// commandOp names the metrics operation for an action. Unknown actions share
// one label so caller input cannot grow the label set.
func commandOp(a model.Action) string {
	if !a.Valid() {
		return "command_unknown"
	}
	return "command_" + strings.ToLower(string(a))
}

func (s *Service) execute(actorID, listID string, cmd model.Command) (CommandResult, error) {
	switch cmd.Action {
	case model.ActionAdd:
		return s.commandAdd(actorID, listID, cmd)
	case model.ActionRemove:
		return s.commandRemove(actorID, listID, cmd)
	case model.ActionUpdateQuantity:
		return s.commandUpdateQuantity(actorID, listID, cmd)
	case model.ActionClearList:
		l, err := s.access(actorID, listID, model.Role.CanEdit)
		if err != nil {
			return CommandResult{}, err
		}
		l.Items = []model.ListItem{}
		s.lists.Put(l)
		return CommandResult{Action: cmd.Action, Message: "The list has been cleared.", List: &l}, nil
	case model.ActionCreateProduct:
		return s.commandCreateProduct(cmd)
	case model.ActionUpdatePrice:
		return s.commandUpdatePrice(cmd)
	}
	return CommandResult{}, newError(KindValidation, "unrecognised command %q", cmd.Action)
}

func (s *Service) resolveProduct(name string) (model.Product, error) {
	if strings.TrimSpace(name) == "" {
		return model.Product{}, newError(KindValidation, "a product name is required")
	}
	p, ok := s.findProduct(name)
	if !ok {
		return model.Product{}, newError(KindNotFound, "no product matches %q", name)
	}
	return p, nil
}

func (s *Service) resolveStore(name string) (model.Store, error) {
	if strings.TrimSpace(name) == "" {
		return model.Store{}, newError(KindValidation, "a store name is required")
	}
	st, ok := s.findStore(name)
	if !ok {
		return model.Store{}, newError(KindNotFound, "no store matches %q", name)
	}
	return st, nil
}

func (s *Service) commandAdd(actorID, listID string, cmd model.Command) (CommandResult, error) {
	p, err := s.resolveProduct(cmd.ProductName)
	if err != nil {
		return CommandResult{}, err
	}
	req := AddItemRequest{ListID: listID, ProductID: p.ID, Strategy: StrategyBest}
	if cmd.Quantity != nil {
		if *cmd.Quantity <= 0 {
			return CommandResult{}, newError(KindValidation, "quantity must be positive")
		}
		req.Quantity = *cmd.Quantity
	}
	var storeName string
	if cmd.StoreName != "" {
		st, err := s.resolveStore(cmd.StoreName)
		if err != nil {
			return CommandResult{}, err
		}
		req.StoreID = st.ID
		storeName = st.Name
	}

	res, err := s.addItem(actorID, req)
	if err != nil {
		return CommandResult{}, err
	}
	if storeName == "" {
		if st, ok := s.catalog.GetStore(res.Item.StoreID); ok {
			storeName = st.Name
		}
	}
	l, _ := s.lists.Get(listID)
	qty := max(req.Quantity, 1)
	return CommandResult{
		Action:  cmd.Action,
		Message: fmt.Sprintf("Added %d %s from %s.", qty, p.Name, storeName),
		List:    &l,
		Product: &p,
	}, nil
}

func (s *Service) commandRemove(actorID, listID string, cmd model.Command) (CommandResult, error) {
	p, err := s.resolveProduct(cmd.ProductName)
	if err != nil {
		return CommandResult{}, err
	}
	var storeID string
	msg := fmt.Sprintf("Removed %s from the list.", p.Name)
	if cmd.StoreName != "" {
		st, err := s.resolveStore(cmd.StoreName)
		if err != nil {
			return CommandResult{}, err
		}
		storeID = st.ID
		msg = fmt.Sprintf("Removed %s for %s from the list.", p.Name, st.Name)
	}

	l, err := s.access(actorID, listID, model.Role.CanEdit)
	if err != nil {
		return CommandResult{}, err
	}
	removeProductItems(&l, p.ID, storeID)
	s.lists.Put(l)
	return CommandResult{Action: cmd.Action, Message: msg, List: &l, Product: &p}, nil
}

func (s *Service) commandUpdateQuantity(actorID, listID string, cmd model.Command) (CommandResult, error) {
	p, err := s.resolveProduct(cmd.ProductName)
	if err != nil {
		return CommandResult{}, err
	}
	var storeID string
	if cmd.StoreName != "" {
		st, err := s.resolveStore(cmd.StoreName)
		if err != nil {
			return CommandResult{}, err
		}
		storeID = st.ID
	}
	if cmd.Quantity == nil || *cmd.Quantity <= 0 {
		return CommandResult{}, newError(KindValidation, "a positive quantity is required")
	}

	l, err := s.access(actorID, listID, model.Role.CanEdit)
	if err != nil {
		return CommandResult{}, err
	}
	for i, item := range l.Items {
		if item.ProductID == p.ID && (storeID == "" || item.StoreID == storeID) {
			l.Items[i].Quantity = *cmd.Quantity
		}
	}
	s.lists.Put(l)
	return CommandResult{
		Action:  cmd.Action,
		Message: fmt.Sprintf("Quantity of %s set to %d.", p.Name, *cmd.Quantity),
		List:    &l,
		Product: &p,
	}, nil
}

// commandCreateProduct adds a product and its first price. A category name
// that matches no category is rejected; without one the category is guessed
// from the product name.
func (s *Service) commandCreateProduct(cmd model.Command) (CommandResult, error) {
	name := strings.TrimSpace(cmd.ProductName)
	switch {
	case name == "":
		return CommandResult{}, newError(KindValidation, "a product name is required to create it")
	case strings.TrimSpace(cmd.StoreName) == "":
		return CommandResult{}, newError(KindValidation, "a store is required to record the price")
	case cmd.Price == nil:
		return CommandResult{}, newError(KindValidation, "a price is required to create the product")
	case cmd.Price.IsNegative():
		return CommandResult{}, newError(KindValidation, "price must not be negative")
	}
	if _, exists := s.findProduct(name); exists {
		return CommandResult{}, newError(KindValidation, "product %q already exists", name)
	}
	st, err := s.resolveStore(cmd.StoreName)
	if err != nil {
		return CommandResult{}, err
	}

	var category model.Category
	if cmd.CategoryName != "" {
		c, ok := s.catalog.CategoryByName(cmd.CategoryName)
		if !ok {
			return CommandResult{}, newError(KindInvalidCategory, "category %q does not exist", cmd.CategoryName)
		}
		category = c
	} else {
		c, ok := s.catalog.CategoryByName(grocery.Categorize(name))
		if !ok {
			return CommandResult{}, newError(KindInvalidCategory, "no category available for %q", name)
		}
		category = c
	}

	unit := cmd.Unit
	if unit == "" {
		unit = model.UnitUnits
	}
	if !unit.Valid() {
		return CommandResult{}, newError(KindValidation, "unit must be kg, l or u")
	}

	p := s.catalog.CreateProduct(model.Product{
		Name:       grocery.Capitalize(name),
		CategoryID: category.ID,
		Unit:       unit,
		Brand:      strings.TrimSpace(cmd.Brand),
		Size:       strings.TrimSpace(cmd.Size),
		Aliases:    []string{},
	})
	r := s.prices.Add(model.PriceRecord{
		ProductID: p.ID,
		StoreID:   st.ID,
		Price:     *cmd.Price,
		Date:      s.today(),
		Quality:   model.QualityNormal,
	})
	return CommandResult{
		Action:  cmd.Action,
		Message: fmt.Sprintf("Created %q with a price of %s€ at %s.", p.Name, r.Price.StringFixed(2), st.Name),
		Product: &p,
		Price:   &r,
	}, nil
}

// commandUpdatePrice revises the store's most recent price for the product
// and dates it today.
func (s *Service) commandUpdatePrice(cmd model.Command) (CommandResult, error) {
	if strings.TrimSpace(cmd.ProductName) == "" || strings.TrimSpace(cmd.StoreName) == "" || cmd.Price == nil {
		return CommandResult{}, newError(KindValidation, "product, store and new price are all required")
	}
	if cmd.Price.IsNegative() {
		return CommandResult{}, newError(KindValidation, "price must not be negative")
	}
	p, err := s.resolveProduct(cmd.ProductName)
	if err != nil {
		return CommandResult{}, err
	}
	st, err := s.resolveStore(cmd.StoreName)
	if err != nil {
		return CommandResult{}, err
	}
	r, ok := s.prices.PriceAt(p.ID, st.ID)
	if !ok {
		return CommandResult{}, newError(KindNoPriceForStore, "%s has no price at %s to update", p.Name, st.Name)
	}
	r.Price = *cmd.Price
	r.Date = s.today()
	s.prices.Update(r)
	return CommandResult{
		Action:  cmd.Action,
		Message: fmt.Sprintf("Price of %s at %s updated to %s€.", p.Name, st.Name, r.Price.StringFixed(2)),
		Product: &p,
		Price:   &r,
	}, nil
}
