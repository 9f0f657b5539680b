package store

import (
	"sort"

	"github.com/dukerupert/cesta/internal/model"
)

// PriceStore is the price ledger: every recorded price of a product at a
// store, kept in insertion order. It is not safe for concurrent use.
type PriceStore struct {
	records []model.PriceRecord
}

func NewPriceStore() *PriceStore {
	return &PriceStore{}
}

// Add assigns r a new id and records it.
func (s *PriceStore) Add(r model.PriceRecord) model.PriceRecord {
	r.ID = NewID("price")
	s.records = append(s.records, r)
	return r
}

func (s *PriceStore) Get(id string) (model.PriceRecord, bool) {
	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	return model.PriceRecord{}, false
}

// Update replaces the record with the same id, keeping its ledger position.
func (s *PriceStore) Update(r model.PriceRecord) bool {
	i := s.index(r.ID)
	if i < 0 {
		return false
	}
	s.records[i] = r
	return true
}

func (s *PriceStore) Delete(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return true
}

// DeleteForProduct removes every record of the product and returns how many
// were removed.
func (s *PriceStore) DeleteForProduct(productID string) int {
	kept := s.records[:0]
	for _, r := range s.records {
		if r.ProductID != productID {
			kept = append(kept, r)
		}
	}
	n := len(s.records) - len(kept)
	clear(s.records[len(kept):])
	s.records = kept
	return n
}

// ForProduct returns the product's records in insertion order.
func (s *PriceStore) ForProduct(productID string) []model.PriceRecord {
	out := []model.PriceRecord{}
	for _, r := range s.records {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}

// PricesFor returns all of the product's records, cheapest first. Equal
// prices keep insertion order.
func (s *PriceStore) PricesFor(productID string) []model.PriceRecord {
	out := s.ForProduct(productID)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}

// BestPrice returns the cheapest record of the product. Equal prices are
// broken by lowest store id, then most recent date, then earliest recorded.
func (s *PriceStore) BestPrice(productID string) (model.PriceRecord, bool) {
	var best model.PriceRecord
	found := false
	for _, r := range s.records {
		if r.ProductID != productID {
			continue
		}
		if !found || betterPrice(r, best) {
			best, found = r, true
		}
	}
	return best, found
}

func betterPrice(a, b model.PriceRecord) bool {
	if c := a.Price.Cmp(b.Price); c != 0 {
		return c < 0
	}
	if a.StoreID != b.StoreID {
		return a.StoreID < b.StoreID
	}
	return a.Date.After(b.Date)
}

// PriceAt returns the current record for the product at the store: the most
// recently dated one, with later recorded entries winning equal dates.
func (s *PriceStore) PriceAt(productID, storeID string) (model.PriceRecord, bool) {
	var cur model.PriceRecord
	found := false
	for _, r := range s.records {
		if r.ProductID != productID || r.StoreID != storeID {
			continue
		}
		if !found || !r.Date.Before(cur.Date) {
			cur, found = r, true
		}
	}
	return cur, found
}

// StoreOptions returns one option per store that has a price for the
// product, using that store's current price, cheapest first. Equal prices
// are ordered by store id.
func (s *PriceStore) StoreOptions(productID string) []model.StoreOption {
	var storeIDs []string
	seen := make(map[string]struct{})
	for _, r := range s.records {
		if r.ProductID != productID {
			continue
		}
		if _, ok := seen[r.StoreID]; ok {
			continue
		}
		seen[r.StoreID] = struct{}{}
		storeIDs = append(storeIDs, r.StoreID)
	}

	opts := make([]model.StoreOption, 0, len(storeIDs))
	for _, id := range storeIDs {
		r, _ := s.PriceAt(productID, id)
		opts = append(opts, model.StoreOption{
			StoreID: r.StoreID,
			Price:   r.Price,
			Date:    r.Date,
			Quality: r.Quality,
		})
	}
	sort.Slice(opts, func(i, j int) bool {
		if c := opts[i].Price.Cmp(opts[j].Price); c != 0 {
			return c < 0
		}
		return opts[i].StoreID < opts[j].StoreID
	})
	return opts
}

func (s *PriceStore) index(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}
