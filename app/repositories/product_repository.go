package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockpile-io/stockpile/app/models"
	"github.com/stockpile-io/stockpile/pkg/database"
	"github.com/stockpile-io/stockpile/pkg/metrics"
	"github.com/stockpile-io/stockpile/pkg/orm"
)

// ProductFilter narrows List results. Zero values mean "no constraint";
// the range fields are pointers so 0 is a usable bound. Name is an
// exact match, Contains is a substring match on the description.
type ProductFilter struct {
	Name      string
	Contains  string
	MinAmount *int
	MaxAmount *int
	MinPrice  *float64
	MaxPrice  *float64
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// WithTx returns a copy of the repository bound to the given
// transaction handle. Services use it to run lookups and writes inside
// a single database transaction.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) conn() *gorm.DB {
	if r.db != nil {
		return r.db
	}
	return database.DB
}

// Find looks up a product by primary key.
func (r *ProductRepository) Find(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	err := r.conn().WithContext(ctx).First(&product, id).Error
	return product, err
}

// FindByName looks up a product by its unique name.
func (r *ProductRepository) FindByName(ctx context.Context, name string) (models.Product, error) {
	var product models.Product
	err := r.conn().WithContext(ctx).Where("name = ?", name).First(&product).Error
	return product, err
}

// FindForUpdate loads a product under a row-level write lock. Must be
// called on a repository bound to a transaction via WithTx; the lock is
// held until that transaction commits or rolls back. SQLite has no
// FOR UPDATE syntax; there the enclosing write transaction already
// serializes access to the row.
func (r *ProductRepository) FindForUpdate(ctx context.Context, id uint) (models.Product, error) {
	q := r.conn().WithContext(ctx)
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	err := q.First(&product, id).Error
	return product, err
}

// List returns products matching filter, paginated, plus the unclamped
// total match count. Results are ordered by primary key.
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter, offset, limit int) ([]models.Product, orm.Pagination, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	q := r.conn().WithContext(ctx).Model(&models.Product{})

	if filter.Name != "" {
		q = q.Where("name = ?", filter.Name)
	}
	if filter.Contains != "" {
		q = q.Where("description LIKE ?", "%"+filter.Contains+"%")
	}
	if filter.MinAmount != nil {
		q = q.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		q = q.Where("amount <= ?", *filter.MaxAmount)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	offset, limit = orm.Clamp(offset, limit)
	pagination := orm.Pagination{Offset: offset, Limit: limit}
	if err := q.Count(&pagination.Total).Error; err != nil {
		return nil, pagination, err
	}

	var products []models.Product
	err := q.Scopes(orm.Paginate(offset, limit)).
		Order("id").
		Find(&products).Error
	return products, pagination, err
}

// Create persists a new product record.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return r.conn().WithContext(ctx).Create(product).Error
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return r.conn().WithContext(ctx).Save(product).Error
}

// Delete removes a product. Its transactions go with it via the
// ON DELETE CASCADE constraint on transactions.product_id.
func (r *ProductRepository) Delete(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return r.conn().WithContext(ctx).Delete(product).Error
}
