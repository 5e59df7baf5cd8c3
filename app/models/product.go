package models

import "time"

// Product is a stocked item. Amount is the current on-hand quantity and is
// only ever changed through the inventory service, which keeps it equal to
// the sum of applied stock transactions.
type Product struct {
	ID          uint    `gorm:"primaryKey"                   json:"id"`
	Name        string  `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Description string  `gorm:"size:50"                      json:"description"`
	Price       float64 `gorm:"not null"                     json:"price"`
	Amount      int     `gorm:"not null;default:0"           json:"amount"`

	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
