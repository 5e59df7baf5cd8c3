package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stockpile-io/stockpile/app/models"
	"github.com/stockpile-io/stockpile/pkg/database"
	"github.com/stockpile-io/stockpile/pkg/metrics"
)

// TransactionRepository handles database operations for Transaction.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// WithTx returns a copy of the repository bound to the given
// transaction handle.
func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) conn() *gorm.DB {
	if r.db != nil {
		return r.db
	}
	return database.DB
}

// Find looks up a transaction by primary key.
func (r *TransactionRepository) Find(ctx context.Context, id uint) (models.Transaction, error) {
	var t models.Transaction
	err := r.conn().WithContext(ctx).First(&t, id).Error
	return t, err
}

// ListForProduct returns a product's transactions oldest-first.
func (r *TransactionRepository) ListForProduct(ctx context.Context, productID uint) ([]models.Transaction, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var ts []models.Transaction
	err := r.conn().WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id").
		Find(&ts).Error
	return ts, err
}

// Create persists a new transaction record.
func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return r.conn().WithContext(ctx).Create(t).Error
}

// Update persists changes to an existing transaction.
func (r *TransactionRepository) Update(ctx context.Context, t *models.Transaction) error {
	return r.conn().WithContext(ctx).Save(t).Error
}

// Delete removes a transaction record.
func (r *TransactionRepository) Delete(ctx context.Context, t *models.Transaction) error {
	return r.conn().WithContext(ctx).Delete(t).Error
}
