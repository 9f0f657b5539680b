package model

import "github.com/shopspring/decimal"

type Action string

const (
	ActionAdd            Action = "ADD"
	ActionRemove         Action = "REMOVE"
	ActionUpdateQuantity Action = "UPDATE_QUANTITY"
	ActionClearList      Action = "CLEAR_LIST"
	ActionCreateProduct  Action = "CREATE_PRODUCT"
	ActionUpdatePrice    Action = "UPDATE_PRICE"
)

func (a Action) Valid() bool {
	switch a {
	case ActionAdd, ActionRemove, ActionUpdateQuantity, ActionClearList, ActionCreateProduct, ActionUpdatePrice:
		return true
	}
	return false
}

// Command is a resolved voice or text instruction. Which fields are
// meaningful depends on Action.
type Command struct {
	Action       Action           `json:"action" validate:"required,oneof=ADD REMOVE UPDATE_QUANTITY CLEAR_LIST CREATE_PRODUCT UPDATE_PRICE"`
	ProductName  string           `json:"product_name,omitempty"`
	StoreName    string           `json:"store_name,omitempty"`
	Quantity     *int             `json:"quantity,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	CategoryName string           `json:"category_name,omitempty"`
	Brand        string           `json:"brand,omitempty"`
	Unit         Unit             `json:"unit,omitempty"`
	Size         string           `json:"size,omitempty"`
}
