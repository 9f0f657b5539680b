package shopping

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/cesta/internal/grocery"
	"github.com/dukerupert/cesta/internal/model"
)

// LineEdit changes a ticket line under review. Nil fields are left alone.
type LineEdit struct {
	ProductName      *string
	BrandGuess       *string
	SizeGuess        *string
	CategoryName     *string
	Quality          *model.Quality
	HealthScoreGuess *int
	// MatchedProductID links the line to an existing product; an empty
	// string unlinks it.
	MatchedProductID *string
}

// ApplyResult counts what applying a ticket wrote.
type ApplyResult struct {
	Ticket          model.Ticket `json:"ticket"`
	ProductsCreated int          `json:"products_created"`
	ProductsMatched int          `json:"products_matched"`
	PricesRecorded  int          `json:"prices_recorded"`
}

// CreateTicket opens a review ticket for lines read off a receipt at
// storeID. Each line is matched to the best scoring catalog product.
func (s *Service) CreateTicket(storeID string, lines []model.TicketLine) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.GetStore(storeID); !ok {
		return model.Ticket{}, s.record("create_ticket", newError(KindNotFound, "store %s not found", storeID))
	}

	products := s.catalog.ListProducts()
	t := model.Ticket{
		StoreID:   storeID,
		Status:    model.TicketReview,
		Lines:     make([]model.TicketLine, 0, len(lines)),
		CreatedAt: s.now(),
	}
	for _, line := range lines {
		line.RawText = strings.TrimSpace(line.RawText)
		if line.RawText == "" {
			continue
		}
		if line.UnitPrice.IsNegative() {
			return model.Ticket{}, s.record("create_ticket", newError(KindValidation, "price for %q must not be negative", line.RawText))
		}
		if line.Quantity <= 0 {
			line.Quantity = 1
		}
		if !line.Quality.Valid() {
			line.Quality = model.QualityNormal
		}
		if line.TotalPrice.IsZero() {
			line.TotalPrice = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		}
		line.MatchedProductID = ""
		if id, ok := grocery.BestMatch(line.RawText, products); ok {
			line.MatchedProductID = id
		}
		t.Lines = append(t.Lines, line)
	}

	created := s.tickets.Create(t)
	s.logger.Debug("ticket created", "ticket_id", created.ID, "lines", len(created.Lines))
	return created, s.record("create_ticket", nil)
}

func (s *Service) Ticket(id string) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets.Get(id)
	if !ok {
		return model.Ticket{}, newError(KindNotFound, "ticket %s not found", id)
	}
	return t, nil
}

// SetTicketStore changes the store the receipt is from.
func (s *Service) SetTicketStore(id, storeID string) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.reviewTicket(id)
	if err != nil {
		return model.Ticket{}, s.record("set_ticket_store", err)
	}
	if _, ok := s.catalog.GetStore(storeID); !ok {
		return model.Ticket{}, s.record("set_ticket_store", newError(KindNotFound, "store %s not found", storeID))
	}
	t.StoreID = storeID
	s.tickets.Put(t)
	return t, s.record("set_ticket_store", nil)
}

func (s *Service) UpdateTicketLine(id, lineID string, edit LineEdit) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.reviewTicket(id)
	if err != nil {
		return model.Ticket{}, s.record("update_ticket_line", err)
	}
	idx := lineIndex(t, lineID)
	if idx < 0 {
		return model.Ticket{}, s.record("update_ticket_line", newError(KindNotFound, "ticket line %s not found", lineID))
	}
	line := &t.Lines[idx]

	if edit.ProductName != nil {
		line.ProductName = strings.TrimSpace(*edit.ProductName)
	}
	if edit.BrandGuess != nil {
		line.BrandGuess = strings.TrimSpace(*edit.BrandGuess)
	}
	if edit.SizeGuess != nil {
		line.SizeGuess = strings.TrimSpace(*edit.SizeGuess)
	}
	if edit.CategoryName != nil {
		line.CategoryName = strings.TrimSpace(*edit.CategoryName)
	}
	if edit.Quality != nil {
		if !edit.Quality.Valid() {
			return model.Ticket{}, s.record("update_ticket_line", newError(KindValidation, "quality must be Buena, Normal or Mala"))
		}
		line.Quality = *edit.Quality
	}
	if edit.HealthScoreGuess != nil {
		hs := *edit.HealthScoreGuess
		if hs < 1 || hs > 5 {
			return model.Ticket{}, s.record("update_ticket_line", newError(KindValidation, "health score must be between 1 and 5"))
		}
		line.HealthScoreGuess = &hs
	}
	if edit.MatchedProductID != nil {
		if pid := *edit.MatchedProductID; pid != "" {
			if _, ok := s.catalog.GetProduct(pid); !ok {
				return model.Ticket{}, s.record("update_ticket_line", newError(KindNotFound, "product %s not found", pid))
			}
		}
		line.MatchedProductID = *edit.MatchedProductID
	}

	s.tickets.Put(t)
	return t, s.record("update_ticket_line", nil)
}

func (s *Service) DeleteTicketLine(id, lineID string) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.reviewTicket(id)
	if err != nil {
		return model.Ticket{}, s.record("delete_ticket_line", err)
	}
	idx := lineIndex(t, lineID)
	if idx < 0 {
		return model.Ticket{}, s.record("delete_ticket_line", newError(KindNotFound, "ticket line %s not found", lineID))
	}
	t.Lines = append(t.Lines[:idx], t.Lines[idx+1:]...)
	s.tickets.Put(t)
	return t, s.record("delete_ticket_line", nil)
}

// ApplyTicket writes a reviewed ticket into the catalog and ledger. Every
// line is checked first; if any line cannot be applied nothing is written.
//
// Unmatched lines become new products carrying the raw receipt text as an
// alias. Matched lines add the raw text to the product's aliases. Each line
// records its unit price at the ticket's store, dated today.
func (s *Service) ApplyTicket(id string) (ApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.applyTicket(id)
	return res, s.record("apply_ticket", err)
}

func (s *Service) applyTicket(id string) (ApplyResult, error) {
	t, err := s.reviewTicket(id)
	if err != nil {
		return ApplyResult{}, err
	}
	if _, ok := s.catalog.GetStore(t.StoreID); !ok {
		return ApplyResult{}, newError(KindNotFound, "store %s not found", t.StoreID)
	}

	fallback, hasFallback := s.catalog.CategoryByName(grocery.FallbackCategory)
	categoryIDs := make([]string, len(t.Lines))
	for i, line := range t.Lines {
		if line.UnitPrice.IsNegative() {
			return ApplyResult{}, newError(KindValidation, "price for %q must not be negative", line.RawText)
		}
		if line.MatchedProductID != "" {
			if _, ok := s.catalog.GetProduct(line.MatchedProductID); !ok {
				return ApplyResult{}, newError(KindNotFound, "product for %q no longer exists", line.RawText)
			}
			continue
		}
		if line.CategoryName == "" {
			if !hasFallback {
				return ApplyResult{}, newError(KindInvalidCategory, "no category available for %q", line.RawText)
			}
			categoryIDs[i] = fallback.ID
			continue
		}
		c, ok := s.catalog.CategoryByName(line.CategoryName)
		if !ok {
			return ApplyResult{}, newError(KindInvalidCategory, "category %q for %q is not valid, review it before applying", line.CategoryName, line.RawText)
		}
		categoryIDs[i] = c.ID
	}

	res := ApplyResult{}
	date := s.today()
	for i, line := range t.Lines {
		productID := line.MatchedProductID
		if productID == "" {
			name := line.ProductName
			if name == "" {
				name = line.RawText
			}
			p := s.catalog.CreateProduct(model.Product{
				Name:        name,
				CategoryID:  categoryIDs[i],
				Unit:        model.UnitUnits,
				Brand:       line.BrandGuess,
				Size:        line.SizeGuess,
				Aliases:     []string{line.RawText},
				HealthScore: line.HealthScoreGuess,
			})
			productID = p.ID
			t.Lines[i].MatchedProductID = p.ID
			res.ProductsCreated++
		} else {
			s.catalog.AddAliases(productID, line.RawText)
			res.ProductsMatched++
		}
		s.prices.Add(model.PriceRecord{
			ProductID: productID,
			StoreID:   t.StoreID,
			Price:     line.UnitPrice,
			Date:      date,
			Quality:   line.Quality,
		})
		res.PricesRecorded++
	}

	t.Status = model.TicketApplied
	s.tickets.Put(t)
	res.Ticket = t
	return res, nil
}

// reviewTicket loads a ticket that can still be edited or applied.
func (s *Service) reviewTicket(id string) (model.Ticket, error) {
	t, ok := s.tickets.Get(id)
	if !ok {
		return model.Ticket{}, newError(KindNotFound, "ticket %s not found", id)
	}
	if t.Status == model.TicketApplied {
		return model.Ticket{}, newError(KindValidation, "ticket has already been applied")
	}
	return t, nil
}

func lineIndex(t model.Ticket, lineID string) int {
	for i := range t.Lines {
		if t.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}
