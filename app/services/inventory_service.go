package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stockpile-io/stockpile/app/models"
	"github.com/stockpile-io/stockpile/app/repositories"
	"github.com/stockpile-io/stockpile/pkg/cache"
	"github.com/stockpile-io/stockpile/pkg/database"
	"github.com/stockpile-io/stockpile/pkg/event"
	"github.com/stockpile-io/stockpile/pkg/metrics"
)

// EventStockChanged is fired after every committed stock mutation.
// The payload is a StockChange.
const EventStockChanged = "stock.changed"

// StockChange is the payload broadcast on EventStockChanged.
type StockChange struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Amount    int    `json:"amount"`
	Type      string `json:"type"`
}

// TransactionParams carries the writable fields of a stock transaction.
type TransactionParams struct {
	Type   string
	Amount int
}

// InventoryService applies stock transactions to products. Every
// check-then-mutate sequence runs inside one database transaction
// holding a row-level lock on the product, so two concurrent removes
// cannot both pass the sufficiency check against stale stock.
type InventoryService struct {
	products     *repositories.ProductRepository
	transactions *repositories.TransactionRepository
}

func NewInventoryService() *InventoryService {
	return &InventoryService{
		products:     repositories.NewProductRepository(),
		transactions: repositories.NewTransactionRepository(),
	}
}

// ApplyTransaction records a stock movement and adjusts the product's
// amount by the signed delta. A remove larger than current stock fails
// with ErrInsufficientStock and leaves no row behind.
func (s *InventoryService) ApplyTransaction(ctx context.Context, productID uint, p TransactionParams) (models.Transaction, error) {
	var (
		created models.Transaction
		after   models.Product
	)

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.products.WithTx(tx).FindForUpdate(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		t := models.Transaction{
			ProductID: productID,
			Type:      p.Type,
			Amount:    p.Amount,
		}

		if product.Amount+t.Delta() < 0 {
			metrics.InsufficientStock.Inc()
			return ErrInsufficientStock
		}

		if err := s.transactions.WithTx(tx).Create(ctx, &t); err != nil {
			return err
		}

		product.Amount += t.Delta()
		if err := s.products.WithTx(tx).Update(ctx, &product); err != nil {
			return err
		}

		created = t
		after = product
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	s.stockChanged(after, created.Type)
	return created, nil
}

// UpdateTransaction overwrites a transaction's type and amount and
// applies the new values as a fresh signed stock movement. The old
// row's effect is not reversed; the record is corrected in place while
// the product absorbs the new delta, subject to the same sufficiency
// check as ApplyTransaction.
func (s *InventoryService) UpdateTransaction(ctx context.Context, productID, transactionID uint, p TransactionParams) (models.Transaction, error) {
	var (
		updated models.Transaction
		after   models.Product
	)

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.products.WithTx(tx).FindForUpdate(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		t, err := s.transactions.WithTx(tx).Find(ctx, transactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if t.ProductID != productID {
			return ErrTransactionNotFound
		}

		t.Type = p.Type
		t.Amount = p.Amount

		if product.Amount+t.Delta() < 0 {
			metrics.InsufficientStock.Inc()
			return ErrInsufficientStock
		}

		if err := s.transactions.WithTx(tx).Update(ctx, &t); err != nil {
			return err
		}

		product.Amount += t.Delta()
		if err := s.products.WithTx(tx).Update(ctx, &product); err != nil {
			return err
		}

		updated = t
		after = product
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	s.stockChanged(after, updated.Type)
	return updated, nil
}

// DeleteTransaction removes a transaction record. Stock is not
// adjusted; the movement the row described has already been applied and
// deleting the record does not un-apply it.
func (s *InventoryService) DeleteTransaction(ctx context.Context, productID, transactionID uint) error {
	if _, err := s.products.Find(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	t, err := s.transactions.Find(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}
	if t.ProductID != productID {
		return ErrTransactionNotFound
	}

	return s.transactions.Delete(ctx, &t)
}

// ListTransactions returns a product's transactions oldest-first.
func (s *InventoryService) ListTransactions(ctx context.Context, productID uint) ([]models.Transaction, error) {
	if _, err := s.products.Find(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return s.transactions.ListForProduct(ctx, productID)
}

func (s *InventoryService) stockChanged(product models.Product, txType string) {
	metrics.RecordTransaction(txType)
	cache.Forget(productCacheKey(product.ID))
	event.FireAsync(EventStockChanged, StockChange{
		ProductID: product.ID,
		Name:      product.Name,
		Amount:    product.Amount,
		Type:      txType,
	})
}
