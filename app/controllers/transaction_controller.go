package controllers

import (
	"github.com/stockpile-io/stockpile/app/models"
	"github.com/stockpile-io/stockpile/app/services"
	"github.com/stockpile-io/stockpile/pkg/ctx"
)

// TransactionInput is the request body for applying or correcting a
// stock transaction.
type TransactionInput struct {
	Type   string `json:"type"   validate:"required,in=add,remove"`
	Amount int    `json:"amount" validate:"required,gt=0"`
}

func (in TransactionInput) params() services.TransactionParams {
	return services.TransactionParams{Type: in.Type, Amount: in.Amount}
}

type TransactionController struct {
	service *services.InventoryService
}

func NewTransactionController() *TransactionController {
	return &TransactionController{
		service: services.NewInventoryService(),
	}
}

// Index handles GET /api/products/{id}/transactions.
func (c *TransactionController) Index(cx *ctx.Context) {
	productID, ok := cx.ParamUint("id")
	if !ok {
		cx.NotFound()
		return
	}

	transactions, err := c.service.ListTransactions(cx.Context(), productID)
	if err != nil {
		respondServiceError(cx, err)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	cx.Success(transactions)
}

// Store handles POST /api/products/{id}/transactions.
func (c *TransactionController) Store(cx *ctx.Context) {
	productID, ok := cx.ParamUint("id")
	if !ok {
		cx.NotFound()
		return
	}

	var in TransactionInput
	if !cx.BindJSON(&in) {
		return
	}

	t, err := c.service.ApplyTransaction(cx.Context(), productID, in.params())
	if err != nil {
		respondServiceError(cx, err)
		return
	}

	cx.Created(t)
}

// Update handles PUT /api/products/{id}/transactions/{tid}.
func (c *TransactionController) Update(cx *ctx.Context) {
	productID, ok := cx.ParamUint("id")
	if !ok {
		cx.NotFound()
		return
	}
	transactionID, ok := cx.ParamUint("tid")
	if !ok {
		cx.NotFound()
		return
	}

	var in TransactionInput
	if !cx.BindJSON(&in) {
		return
	}

	t, err := c.service.UpdateTransaction(cx.Context(), productID, transactionID, in.params())
	if err != nil {
		respondServiceError(cx, err)
		return
	}

	cx.Success(t)
}

// Destroy handles DELETE /api/products/{id}/transactions/{tid}.
func (c *TransactionController) Destroy(cx *ctx.Context) {
	productID, ok := cx.ParamUint("id")
	if !ok {
		cx.NotFound()
		return
	}
	transactionID, ok := cx.ParamUint("tid")
	if !ok {
		cx.NotFound()
		return
	}

	if err := c.service.DeleteTransaction(cx.Context(), productID, transactionID); err != nil {
		respondServiceError(cx, err)
		return
	}

	cx.NoContent()
}
