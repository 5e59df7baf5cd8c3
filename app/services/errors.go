package services

import "errors"

// Sentinel errors returned by the service layer. Controllers map these
// to transport status codes with errors.Is.
var (
	// ErrProductNotFound means no product exists with the given id.
	ErrProductNotFound = errors.New("product not found")

	// ErrTransactionNotFound means no transaction exists with the given
	// id, or it belongs to a different product.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrProductNameTaken means another product already uses the name.
	ErrProductNameTaken = errors.New("product name already in use")

	// ErrInsufficientStock means a remove would drive stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)
