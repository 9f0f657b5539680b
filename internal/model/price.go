package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Quality string

const (
	QualityGood   Quality = "Buena"
	QualityNormal Quality = "Normal"
	QualityBad    Quality = "Mala"
)

func (q Quality) Valid() bool {
	switch q {
	case QualityGood, QualityNormal, QualityBad:
		return true
	}
	return false
}

type PriceRecord struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	StoreID   string          `json:"store_id"`
	Price     decimal.Decimal `json:"price"`
	Date      time.Time       `json:"date"`
	Quality   Quality         `json:"quality"`
	Notes     string          `json:"notes,omitempty"`
}

// StoreOption is one store a product can be bought at, with the price
// currently recorded there.
type StoreOption struct {
	StoreID string          `json:"store_id"`
	Price   decimal.Decimal `json:"price"`
	Date    time.Time       `json:"date"`
	Quality Quality         `json:"quality"`
}
