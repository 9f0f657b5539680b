package shopping

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/cesta/internal/model"
)

type PriceInput struct {
	ProductID string
	StoreID   string
	Price     decimal.Decimal
	// Date defaults to today when nil.
	Date    *time.Time
	Quality model.Quality
	Notes   string
}

// BestPrice returns the cheapest record for the product, or nil when it has
// no prices.
func (s *Service) BestPrice(productID string) (*model.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.GetProduct(productID); !ok {
		return nil, newError(KindNotFound, "product %s not found", productID)
	}
	r, ok := s.prices.BestPrice(productID)
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// PricesFor returns every record for the product, cheapest first.
func (s *Service) PricesFor(productID string) ([]model.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.GetProduct(productID); !ok {
		return nil, newError(KindNotFound, "product %s not found", productID)
	}
	return s.prices.PricesFor(productID), nil
}

// PriceAt returns the current record for the product at the store, or nil.
func (s *Service) PriceAt(productID, storeID string) (*model.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.prices.PriceAt(productID, storeID)
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// StoreOptions lists each store selling the product at its current price,
// cheapest first.
func (s *Service) StoreOptions(productID string) ([]model.StoreOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.GetProduct(productID); !ok {
		return nil, newError(KindNotFound, "product %s not found", productID)
	}
	return s.prices.StoreOptions(productID), nil
}

func (s *Service) AddPrice(in PriceInput) (model.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.validatePrice(in)
	if err != nil {
		return model.PriceRecord{}, s.record("add_price", err)
	}
	created := s.prices.Add(r)
	return created, s.record("add_price", nil)
}

// UpdatePrice revises a record. Empty input fields keep the record's current
// values. List item snapshots taken from it keep their original price.
func (s *Service) UpdatePrice(id string, in PriceInput) (model.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.prices.Get(id)
	if !ok {
		return model.PriceRecord{}, s.record("update_price", newError(KindNotFound, "price record %s not found", id))
	}
	if in.ProductID == "" {
		in.ProductID = existing.ProductID
	}
	if in.StoreID == "" {
		in.StoreID = existing.StoreID
	}
	if in.Date == nil {
		in.Date = &existing.Date
	}
	if in.Quality == "" {
		in.Quality = existing.Quality
	}
	if in.Notes == "" {
		in.Notes = existing.Notes
	}
	r, err := s.validatePrice(in)
	if err != nil {
		return model.PriceRecord{}, s.record("update_price", err)
	}
	r.ID = id
	s.prices.Update(r)
	return r, s.record("update_price", nil)
}

func (s *Service) DeletePrice(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.prices.Delete(id) {
		return s.record("delete_price", newError(KindNotFound, "price record %s not found", id))
	}
	return s.record("delete_price", nil)
}

func (s *Service) validatePrice(in PriceInput) (model.PriceRecord, error) {
	if _, ok := s.catalog.GetProduct(in.ProductID); !ok {
		return model.PriceRecord{}, newError(KindNotFound, "product %s not found", in.ProductID)
	}
	if _, ok := s.catalog.GetStore(in.StoreID); !ok {
		return model.PriceRecord{}, newError(KindNotFound, "store %s not found", in.StoreID)
	}
	if in.Price.IsNegative() {
		return model.PriceRecord{}, newError(KindValidation, "price must not be negative")
	}
	quality := in.Quality
	if quality == "" {
		quality = model.QualityNormal
	}
	if !quality.Valid() {
		return model.PriceRecord{}, newError(KindValidation, "quality must be Buena, Normal or Mala")
	}
	date := s.today()
	if in.Date != nil {
		date = *in.Date
	}
	return model.PriceRecord{
		ProductID: in.ProductID,
		StoreID:   in.StoreID,
		Price:     in.Price,
		Date:      date,
		Quality:   quality,
		Notes:     strings.TrimSpace(in.Notes),
	}, nil
}
