package models

import "time"

// Transaction types. The sign of a stock change is implied by the type;
// Amount is always the positive magnitude.
const (
	TransactionAdd    = "add"
	TransactionRemove = "remove"
)

// Transaction records stock entering or leaving inventory for one product.
type Transaction struct {
	ID        uint   `gorm:"primaryKey"             json:"id"`
	ProductID uint   `gorm:"not null;index"         json:"product_id"`
	Type      string `gorm:"size:10;not null"       json:"type"`
	Amount    int    `gorm:"not null"               json:"amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Delta returns the signed stock change this transaction represents.
func (t Transaction) Delta() int {
	if t.Type == TransactionRemove {
		return -t.Amount
	}
	return t.Amount
}
