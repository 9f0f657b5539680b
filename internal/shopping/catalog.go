package shopping

import (
	"strings"

	"github.com/dukerupert/cesta/internal/grocery"
	"github.com/dukerupert/cesta/internal/model"
	"github.com/dukerupert/cesta/internal/store"
)

type StoreInput struct {
	Name       string
	Color      string
	AisleOrder []string
}

type ProductInput struct {
	Name        string
	CategoryID  string
	Unit        model.Unit
	Brand       string
	Size        string
	Aliases     []string
	HealthScore *int
}

// --- Categories ---

func (s *Service) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.ListCategories()
}

// CreateCategory adds a category. Names are unique ignoring case and accents.
func (s *Service) CreateCategory(name string) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, s.record("create_category", newError(KindValidation, "category name is required"))
	}
	if _, ok := s.catalog.CategoryByName(name); ok {
		return model.Category{}, s.record("create_category", newError(KindValidation, "category %q already exists", name))
	}
	c := s.catalog.CreateCategory(name)
	return c, s.record("create_category", nil)
}

// --- Stores ---

func (s *Service) Stores() []model.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.ListStores()
}

func (s *Service) Store(id string) (model.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.catalog.GetStore(id)
	if !ok {
		return model.Store{}, newError(KindNotFound, "store %s not found", id)
	}
	return st, nil
}

func (s *Service) CreateStore(in StoreInput) (model.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.validateStore(in)
	if err != nil {
		return model.Store{}, s.record("create_store", err)
	}
	created := s.catalog.CreateStore(st)
	return created, s.record("create_store", nil)
}

func (s *Service) UpdateStore(id string, in StoreInput) (model.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.GetStore(id); !ok {
		return model.Store{}, s.record("update_store", newError(KindNotFound, "store %s not found", id))
	}
	st, err := s.validateStore(in)
	if err != nil {
		return model.Store{}, s.record("update_store", err)
	}
	st.ID = id
	s.catalog.UpdateStore(st)
	return st, s.record("update_store", nil)
}

func (s *Service) validateStore(in StoreInput) (model.Store, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Store{}, newError(KindValidation, "store name is required")
	}
	seen := make(map[string]bool, len(in.AisleOrder))
	for _, id := range in.AisleOrder {
		if _, ok := s.catalog.GetCategory(id); !ok {
			return model.Store{}, newError(KindInvalidCategory, "aisle order references unknown category %s", id)
		}
		if seen[id] {
			return model.Store{}, newError(KindValidation, "aisle order lists category %s twice", id)
		}
		seen[id] = true
	}
	return model.Store{
		Name:       name,
		Color:      in.Color,
		AisleOrder: append([]string{}, in.AisleOrder...),
	}, nil
}

// --- Products ---

func (s *Service) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.ListProducts()
}

// SearchProducts returns the products whose name or an alias matches query.
// An empty query returns every product.
func (s *Service) SearchProducts(query string) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.catalog.ListProducts()
	if strings.TrimSpace(query) == "" {
		return all
	}
	out := []model.Product{}
	for _, p := range all {
		if grocery.MatchProduct(s.matcher, p, query) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) Product(id string) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.catalog.GetProduct(id)
	if !ok {
		return model.Product{}, newError(KindNotFound, "product %s not found", id)
	}
	return p, nil
}

func (s *Service) CreateProduct(in ProductInput) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.validateProduct(in)
	if err != nil {
		return model.Product{}, s.record("create_product", err)
	}
	created := s.catalog.CreateProduct(p)
	return created, s.record("create_product", nil)
}

// UpdateProduct replaces the product's editable fields. Aliases in the input
// replace the existing set; a nil Aliases keeps it.
func (s *Service) UpdateProduct(id string, in ProductInput) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.catalog.GetProduct(id)
	if !ok {
		return model.Product{}, s.record("update_product", newError(KindNotFound, "product %s not found", id))
	}
	if in.Aliases == nil {
		in.Aliases = existing.Aliases
	}
	p, err := s.validateProduct(in)
	if err != nil {
		return model.Product{}, s.record("update_product", err)
	}
	p.ID = id
	s.catalog.UpdateProduct(p)
	return p.Clone(), s.record("update_product", nil)
}

// AddAliases unions aliases into the product's alias set.
func (s *Service) AddAliases(id string, aliases ...string) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.catalog.AddAliases(id, aliases...)
	if !ok {
		return model.Product{}, s.record("add_aliases", newError(KindNotFound, "product %s not found", id))
	}
	return p, s.record("add_aliases", nil)
}

// DeleteProduct removes the product together with all of its price records
// and every list item that references it.
func (s *Service) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.DeleteProduct(id) {
		return s.record("delete_product", newError(KindNotFound, "product %s not found", id))
	}
	records := s.prices.DeleteForProduct(id)
	items := s.lists.RemoveProduct(id)
	s.logger.Debug("product deleted", "product_id", id, "price_records", records, "list_items", items)
	return s.record("delete_product", nil)
}

func (s *Service) validateProduct(in ProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Product{}, newError(KindValidation, "product name is required")
	}
	if _, ok := s.catalog.GetCategory(in.CategoryID); !ok {
		return model.Product{}, newError(KindInvalidCategory, "category %q does not exist", in.CategoryID)
	}
	unit := in.Unit
	if unit == "" {
		unit = model.UnitUnits
	}
	if !unit.Valid() {
		return model.Product{}, newError(KindValidation, "unit must be kg, l or u")
	}
	if in.HealthScore != nil && (*in.HealthScore < 1 || *in.HealthScore > 5) {
		return model.Product{}, newError(KindValidation, "health score must be between 1 and 5")
	}
	p := model.Product{
		Name:        name,
		CategoryID:  in.CategoryID,
		Unit:        unit,
		Brand:       strings.TrimSpace(in.Brand),
		Size:        strings.TrimSpace(in.Size),
		Aliases:     store.UnionAliases(nil, in.Aliases...),
		HealthScore: in.HealthScore,
	}
	return p.Clone(), nil
}

// findProduct resolves a spoken or typed product name to the first catalog
// product whose name or alias matches.
func (s *Service) findProduct(name string) (model.Product, bool) {
	for _, p := range s.catalog.ListProducts() {
		if grocery.MatchProduct(s.matcher, p, name) {
			return p, true
		}
	}
	return model.Product{}, false
}

func (s *Service) findStore(name string) (model.Store, bool) {
	for _, st := range s.catalog.ListStores() {
		if s.matcher.Match(st.Name, name) {
			return st, true
		}
	}
	return model.Store{}, false
}
