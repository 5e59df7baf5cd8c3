package controllers

import (
	"errors"
	"strconv"

	"github.com/stockpile-io/stockpile/app/models"
	"github.com/stockpile-io/stockpile/app/repositories"
	"github.com/stockpile-io/stockpile/app/services"
	"github.com/stockpile-io/stockpile/pkg/ctx"
	"github.com/stockpile-io/stockpile/pkg/logger"
	"github.com/stockpile-io/stockpile/pkg/orm"
)

// ProductInput is the request body for create and update.
type ProductInput struct {
	Name        string  `json:"name"        validate:"required,min=3,max=50"`
	Description string  `json:"description" validate:"nullable,max=50"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Amount      *int    `json:"amount"      validate:"nullable,gte=0"`
}

func (in ProductInput) params() services.ProductParams {
	return services.ProductParams{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Amount:      in.Amount,
	}
}

type productListResponse struct {
	Products   []models.Product `json:"products"`
	Pagination orm.Pagination   `json:"pagination"`
}

type ProductController struct {
	service *services.ProductService
}

func NewProductController() *ProductController {
	return &ProductController{
		service: services.NewProductService(),
	}
}

// Index handles GET /api/products.
// Supported query params: name, contains, min_amount, max_amount,
// min_price, max_price, offset, limit.
func (c *ProductController) Index(cx *ctx.Context) {
	filter := repositories.ProductFilter{
		Name:      cx.Query("name"),
		Contains:  cx.Query("contains"),
		MinAmount: queryIntPtr(cx, "min_amount"),
		MaxAmount: queryIntPtr(cx, "max_amount"),
		MinPrice:  queryFloatPtr(cx, "min_price"),
		MaxPrice:  queryFloatPtr(cx, "max_price"),
	}

	products, pagination, err := c.service.ListProducts(
		cx.Context(), filter, cx.QueryInt("offset", 0), cx.QueryInt("limit", 0))
	if err != nil {
		respondServiceError(cx, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	cx.Success(productListResponse{Products: products, Pagination: pagination})
}

// Store handles POST /api/products.
func (c *ProductController) Store(cx *ctx.Context) {
	var in ProductInput
	if !cx.BindJSON(&in) {
		return
	}

	product, err := c.service.CreateProduct(cx.Context(), in.params())
	if err != nil {
		respondServiceError(cx, err)
		return
	}

	cx.Created(product)
}

// Show handles GET /api/products/{id}.
func (c *ProductController) Show(cx *ctx.Context) {
	id, ok := cx.ParamUint("id")
	if !ok {
		cx.NotFound()
		return
	}

	product, err := c.service.GetProduct(cx.Context(), id)
	if err != nil {
		respondServiceError(cx, err)
		return
	}

	cx.Success(product)
}

// Update handles PUT /api/products/{id}.
func (c *ProductController) Update(cx *ctx.Context) {
	id, ok := cx.ParamUint("id")
	if !ok {
		cx.NotFound()
		return
	}

	var in ProductInput
	if !cx.BindJSON(&in) {
		return
	}

	product, err := c.service.UpdateProduct(cx.Context(), id, in.params())
	if err != nil {
		respondServiceError(cx, err)
		return
	}

	cx.Success(product)
}

// Destroy handles DELETE /api/products/{id}.
func (c *ProductController) Destroy(cx *ctx.Context) {
	id, ok := cx.ParamUint("id")
	if !ok {
		cx.NotFound()
		return
	}

	if err := c.service.DeleteProduct(cx.Context(), id); err != nil {
		respondServiceError(cx, err)
		return
	}

	cx.NoContent()
}

// respondServiceError maps service-layer sentinels to status codes.
func respondServiceError(cx *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrTransactionNotFound):
		cx.NotFound(err.Error())
	case errors.Is(err, services.ErrProductNameTaken):
		cx.Conflict(err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		cx.Error(400, err.Error())
	default:
		logger.WithCtx(cx.Context()).Error("unhandled service error", "error", err)
		cx.Error(500, "internal server error")
	}
}

func queryIntPtr(cx *ctx.Context, key string) *int {
	raw := cx.Query(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func queryFloatPtr(cx *ctx.Context, key string) *float64 {
	raw := cx.Query(key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
