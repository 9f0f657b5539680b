package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemStatus string

const (
	StatusPending ItemStatus = "pending"
	StatusPicked  ItemStatus = "picked"
	// StatusSkipped is only reached through an explicit status change.
	StatusSkipped ItemStatus = "skipped"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPicked, StatusSkipped:
		return true
	}
	return false
}

type ListItem struct {
	ID        string     `json:"id"`
	ProductID string     `json:"product_id"`
	StoreID   string     `json:"store_id"`
	Quantity  int        `json:"quantity"`
	Status    ItemStatus `json:"status"`
	// PriceSnapshot is the store price captured when the item was added.
	// Later price changes do not touch it.
	PriceSnapshot decimal.Decimal `json:"price_snapshot"`
	PickedBy      string          `json:"picked_by,omitempty"`
	PickedAt      *time.Time      `json:"picked_at,omitempty"`
}

// Cost is the snapshot price times quantity.
func (i ListItem) Cost() decimal.Decimal {
	return i.PriceSnapshot.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type List struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Items     []ListItem      `json:"items"`
	OwnerID   string          `json:"owner_id"`
	Members   map[string]Role `json:"members"`
	CreatedAt time.Time       `json:"created_at"`
}

// Clone returns a deep copy of l.
func (l List) Clone() List {
	c := l
	c.Items = make([]ListItem, len(l.Items))
	for i, item := range l.Items {
		if item.PickedAt != nil {
			at := *item.PickedAt
			item.PickedAt = &at
		}
		c.Items[i] = item
	}
	c.Members = make(map[string]Role, len(l.Members))
	for id, role := range l.Members {
		c.Members[id] = role
	}
	return c
}
