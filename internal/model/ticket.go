package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketUploading TicketStatus = "uploading"
	TicketParsing   TicketStatus = "parsing"
	TicketReview    TicketStatus = "review"
	TicketApplied   TicketStatus = "applied"
)

// Ticket is a scanned receipt under review before its lines are applied to
// the catalog and price ledger.
type Ticket struct {
	ID        string       `json:"id"`
	StoreID   string       `json:"store_id"`
	Status    TicketStatus `json:"status"`
	Lines     []TicketLine `json:"lines"`
	CreatedAt time.Time    `json:"created_at"`
}

type TicketLine struct {
	ID               string          `json:"id"`
	RawText          string          `json:"raw_text"`
	ProductName      string          `json:"product_name,omitempty"`
	BrandGuess       string          `json:"brand_guess,omitempty"`
	SizeGuess        string          `json:"size_guess,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	CategoryName     string          `json:"category_name,omitempty"`
	MatchedProductID string          `json:"matched_product_id,omitempty"`
	HealthScoreGuess *int            `json:"health_score_guess,omitempty"`
	Quality          Quality         `json:"quality"`
}

// Clone returns a deep copy of t.
func (t Ticket) Clone() Ticket {
	c := t
	c.Lines = make([]TicketLine, len(t.Lines))
	for i, l := range t.Lines {
		if l.HealthScoreGuess != nil {
			hs := *l.HealthScoreGuess
			l.HealthScoreGuess = &hs
		}
		c.Lines[i] = l
	}
	return c
}
