package routes

import (
	"github.com/stockpile-io/stockpile/app/controllers"
	"github.com/stockpile-io/stockpile/pkg/ctx"
	"github.com/stockpile-io/stockpile/pkg/router"
)

// RegisterAPI mounts the inventory API under /api.
func RegisterAPI(r *router.Router) {
	productController := controllers.NewProductController()
	transactionController := controllers.NewTransactionController()

	api := r.Group("/api")

	api.Get("/products", "products.index", ctx.Wrap(productController.Index))
	api.Post("/products", "products.store", ctx.Wrap(productController.Store))
	api.Get("/products/{id}", "products.show", ctx.Wrap(productController.Show))
	api.Put("/products/{id}", "products.update", ctx.Wrap(productController.Update))
	api.Delete("/products/{id}", "products.destroy", ctx.Wrap(productController.Destroy))

	api.Get("/products/{id}/transactions", "transactions.index", ctx.Wrap(transactionController.Index))
	api.Post("/products/{id}/transactions", "transactions.store", ctx.Wrap(transactionController.Store))
	api.Put("/products/{id}/transactions/{tid}", "transactions.update", ctx.Wrap(transactionController.Update))
	api.Delete("/products/{id}/transactions/{tid}", "transactions.destroy", ctx.Wrap(transactionController.Destroy))
}
