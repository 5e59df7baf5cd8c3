package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stockpile-io/stockpile/app/models"
	"github.com/stockpile-io/stockpile/app/repositories"
	"github.com/stockpile-io/stockpile/pkg/cache"
	"github.com/stockpile-io/stockpile/pkg/metrics"
	"github.com/stockpile-io/stockpile/pkg/orm"
)

// productCacheTTL bounds staleness of the single-product read cache.
// Every mutation path invalidates the key eagerly; the TTL is the
// backstop for invalidations lost to a Redis hiccup.
const productCacheTTL = 5 * time.Minute

// defaultInitialAmount is the opening stock when a product is created
// without an explicit amount.
const defaultInitialAmount = 1

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

// ProductParams carries the writable fields of a product. Amount is a
// pointer so "absent" and "zero" stay distinct.
type ProductParams struct {
	Name        string
	Description string
	Price       float64
	Amount      *int
}

// ProductService implements product CRUD on top of the repository,
// with a Redis read-through cache for single-product lookups.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService() *ProductService {
	return &ProductService{products: repositories.NewProductRepository()}
}

// CreateProduct persists a new product. Names are unique; a taken name
// returns ErrProductNameTaken. An absent amount defaults to 1.
func (s *ProductService) CreateProduct(ctx context.Context, p ProductParams) (models.Product, error) {
	if _, err := s.products.FindByName(ctx, p.Name); err == nil {
		return models.Product{}, ErrProductNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, err
	}

	amount := defaultInitialAmount
	if p.Amount != nil {
		amount = *p.Amount
	}

	product := models.Product{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Amount:      amount,
	}
	if err := s.products.Create(ctx, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// GetProduct returns a product by id, serving from cache when possible.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	if cache.Get(productCacheKey(id), &product) {
		metrics.CacheHits.Inc()
		return product, nil
	}
	metrics.CacheMisses.Inc()

	product, err := s.products.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}

	cache.Set(productCacheKey(id), product, productCacheTTL)
	return product, nil
}

// ListProducts returns products matching filter, paginated.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter, offset, limit int) ([]models.Product, orm.Pagination, error) {
	return s.products.List(ctx, filter, offset, limit)
}

// UpdateProduct overwrites a product's fields. A name change is checked
// for uniqueness against other products.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, p ProductParams) (models.Product, error) {
	product, err := s.products.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}

	if p.Name != product.Name {
		if other, err := s.products.FindByName(ctx, p.Name); err == nil && other.ID != id {
			return models.Product{}, ErrProductNameTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, err
		}
	}

	product.Name = p.Name
	product.Description = p.Description
	product.Price = p.Price
	if p.Amount != nil {
		product.Amount = *p.Amount
	}

	if err := s.products.Update(ctx, &product); err != nil {
		return models.Product{}, err
	}

	cache.Forget(productCacheKey(id))
	return product, nil
}

// DeleteProduct removes a product and, via the foreign key cascade, its
// transaction history.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.products.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.products.Delete(ctx, &product); err != nil {
		return err
	}

	cache.Forget(productCacheKey(id))
	return nil
}
