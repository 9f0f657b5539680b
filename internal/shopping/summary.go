package shopping

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/cesta/internal/grocery"
	"github.com/dukerupert/cesta/internal/model"
)

type SummaryItem struct {
	model.ListItem
	ProductName string          `json:"product_name"`
	CategoryID  string          `json:"category_id"`
	Cost        decimal.Decimal `json:"cost"`
}

type StoreGroup struct {
	StoreID   string `json:"store_id"`
	StoreName string `json:"store_name"`
	// Subtotal covers pending items only.
	Subtotal decimal.Decimal `json:"subtotal"`
	Items    []SummaryItem   `json:"items"`
}

type CategoryGroup struct {
	CategoryID   string        `json:"category_id"`
	CategoryName string        `json:"category_name"`
	Items        []SummaryItem `json:"items"`
}

// HealthBreakdown splits the cost of products with a health score: 4 and 5
// are healthy, 3 is neutral, 1 and 2 are unhealthy.
type HealthBreakdown struct {
	Healthy   decimal.Decimal `json:"healthy"`
	Neutral   decimal.Decimal `json:"neutral"`
	Unhealthy decimal.Decimal `json:"unhealthy"`
}

type Summary struct {
	ListID string `json:"list_id"`
	// PendingTotal is the estimated spend still ahead.
	PendingTotal  decimal.Decimal `json:"pending_total"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalQuantity int             `json:"total_quantity"`
	PendingCount  int             `json:"pending_count"`
	PickedCount   int             `json:"picked_count"`
	Stores        []StoreGroup    `json:"stores"`
	Categories    []CategoryGroup `json:"categories"`
	Health        HealthBreakdown `json:"health"`
}

// Summary computes totals and the per-store and per-category views of a
// list. Store groups follow catalog store order with items walked in the
// store's aisle order, then by product name.
func (s *Service) Summary(actorID, listID string) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.access(actorID, listID, nil)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		ListID:     l.ID,
		Stores:     []StoreGroup{},
		Categories: []CategoryGroup{},
	}
	byStore := make(map[string]*StoreGroup)
	byCategory := make(map[string]*CategoryGroup)

	for _, item := range l.Items {
		cost := item.Cost()
		sum.TotalCost = sum.TotalCost.Add(cost)
		sum.TotalQuantity += item.Quantity
		switch item.Status {
		case model.StatusPending:
			sum.PendingCount++
			sum.PendingTotal = sum.PendingTotal.Add(cost)
		case model.StatusPicked:
			sum.PickedCount++
		}

		p, ok := s.catalog.GetProduct(item.ProductID)
		if !ok {
			continue
		}
		if p.HealthScore != nil {
			switch hs := *p.HealthScore; {
			case hs >= 4:
				sum.Health.Healthy = sum.Health.Healthy.Add(cost)
			case hs == 3:
				sum.Health.Neutral = sum.Health.Neutral.Add(cost)
			default:
				sum.Health.Unhealthy = sum.Health.Unhealthy.Add(cost)
			}
		}

		si := SummaryItem{ListItem: item, ProductName: p.Name, CategoryID: p.CategoryID, Cost: cost}

		sg, ok := byStore[item.StoreID]
		if !ok {
			sg = &StoreGroup{StoreID: item.StoreID}
			if st, ok := s.catalog.GetStore(item.StoreID); ok {
				sg.StoreName = st.Name
			}
			byStore[item.StoreID] = sg
		}
		sg.Items = append(sg.Items, si)
		if item.Status == model.StatusPending {
			sg.Subtotal = sg.Subtotal.Add(cost)
		}

		cg, ok := byCategory[p.CategoryID]
		if !ok {
			cg = &CategoryGroup{CategoryID: p.CategoryID}
			if c, ok := s.catalog.GetCategory(p.CategoryID); ok {
				cg.CategoryName = c.Name
			}
			byCategory[p.CategoryID] = cg
		}
		cg.Items = append(cg.Items, si)
	}

	for _, st := range s.catalog.ListStores() {
		sg, ok := byStore[st.ID]
		if !ok {
			continue
		}
		sort.SliceStable(sg.Items, func(i, j int) bool {
			ri, rj := st.AisleRank(sg.Items[i].CategoryID), st.AisleRank(sg.Items[j].CategoryID)
			if ri != rj {
				return ri < rj
			}
			return nameLess(sg.Items[i].ProductName, sg.Items[j].ProductName)
		})
		sum.Stores = append(sum.Stores, *sg)
	}

	for _, c := range s.catalog.ListCategories() {
		cg, ok := byCategory[c.ID]
		if !ok {
			continue
		}
		sort.SliceStable(cg.Items, func(i, j int) bool {
			return nameLess(cg.Items[i].ProductName, cg.Items[j].ProductName)
		})
		sum.Categories = append(sum.Categories, *cg)
	}

	return sum, nil
}

func nameLess(a, b string) bool {
	na, nb := grocery.Normalize(a), grocery.Normalize(b)
	if na != nb {
		return na < nb
	}
	return a < b
}
