package store

import (
	"github.com/google/uuid"

	"github.com/dukerupert/cesta/internal/grocery"
	"github.com/dukerupert/cesta/internal/model"
)

// NewID returns a fresh entity id such as "prod_3f0c...".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// CatalogStore holds categories, stores and products in insertion order.
// It is not safe for concurrent use.
type CatalogStore struct {
	categories []model.Category
	stores     []model.Store
	products   []model.Product
}

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{}
}

// --- Category methods ---

func (s *CatalogStore) ListCategories() []model.Category {
	return append([]model.Category(nil), s.categories...)
}

func (s *CatalogStore) GetCategory(id string) (model.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// CategoryByName finds a category by case and accent insensitive name.
func (s *CatalogStore) CategoryByName(name string) (model.Category, bool) {
	n := grocery.Normalize(name)
	if n == "" {
		return model.Category{}, false
	}
	for _, c := range s.categories {
		if grocery.Normalize(c.Name) == n {
			return c, true
		}
	}
	return model.Category{}, false
}

// CategoryRank returns the position of a category in catalog order, or the
// number of categories when unknown.
func (s *CatalogStore) CategoryRank(id string) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return len(s.categories)
}

func (s *CatalogStore) CreateCategory(name string) model.Category {
	c := model.Category{ID: NewID("cat"), Name: name}
	s.categories = append(s.categories, c)
	return c
}

// --- Store methods ---

func (s *CatalogStore) ListStores() []model.Store {
	out := make([]model.Store, len(s.stores))
	for i, st := range s.stores {
		out[i] = st.Clone()
	}
	return out
}

func (s *CatalogStore) GetStore(id string) (model.Store, bool) {
	for _, st := range s.stores {
		if st.ID == id {
			return st.Clone(), true
		}
	}
	return model.Store{}, false
}

// CreateStore assigns st a new id and adds it.
func (s *CatalogStore) CreateStore(st model.Store) model.Store {
	st = st.Clone()
	st.ID = NewID("store")
	s.stores = append(s.stores, st)
	return st.Clone()
}

// UpdateStore replaces the store with the same id. It reports false when no
// such store exists.
func (s *CatalogStore) UpdateStore(st model.Store) bool {
	for i := range s.stores {
		if s.stores[i].ID == st.ID {
			s.stores[i] = st.Clone()
			return true
		}
	}
	return false
}

// --- Product methods ---

func (s *CatalogStore) ListProducts() []model.Product {
	out := make([]model.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

func (s *CatalogStore) GetProduct(id string) (model.Product, bool) {
	if i := s.productIndex(id); i >= 0 {
		return s.products[i].Clone(), true
	}
	return model.Product{}, false
}

// CreateProduct assigns p a new id and adds it.
func (s *CatalogStore) CreateProduct(p model.Product) model.Product {
	p = p.Clone()
	p.ID = NewID("prod")
	if p.Aliases == nil {
		p.Aliases = []string{}
	}
	s.products = append(s.products, p)
	return p.Clone()
}

func (s *CatalogStore) UpdateProduct(p model.Product) bool {
	i := s.productIndex(p.ID)
	if i < 0 {
		return false
	}
	s.products[i] = p.Clone()
	return true
}

func (s *CatalogStore) DeleteProduct(id string) bool {
	i := s.productIndex(id)
	if i < 0 {
		return false
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return true
}

// AddAliases unions aliases into the product's alias set. Existing aliases
// keep their position and duplicates are compared after normalization.
func (s *CatalogStore) AddAliases(id string, aliases ...string) (model.Product, bool) {
	i := s.productIndex(id)
	if i < 0 {
		return model.Product{}, false
	}
	s.products[i].Aliases = UnionAliases(s.products[i].Aliases, aliases...)
	return s.products[i].Clone(), true
}

func (s *CatalogStore) productIndex(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// UnionAliases appends each non-empty alias not already present in existing.
func UnionAliases(existing []string, aliases ...string) []string {
	out := append([]string{}, existing...)
	seen := make(map[string]struct{}, len(out))
	for _, a := range out {
		seen[grocery.Normalize(a)] = struct{}{}
	}
	for _, a := range aliases {
		n := grocery.Normalize(a)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, a)
	}
	return out
}
