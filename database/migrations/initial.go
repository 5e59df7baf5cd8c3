// Package migrations registers the schema migrations. Importing the
// package (blank import in internal/server and the CLI) is enough to
// populate the migration registry.
package migrations

import (
	"gorm.io/gorm"

	"github.com/stockpile-io/stockpile/app/models"
	"github.com/stockpile-io/stockpile/pkg/migration"
)

func init() {
	migration.Register("20240301000000_create_products_table", &CreateProductsTable{})
	migration.Register("20240301000001_create_transactions_table", &CreateTransactionsTable{})
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}

type CreateTransactionsTable struct{}

func (m *CreateTransactionsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Transaction{})
}

func (m *CreateTransactionsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Transaction{})
}
