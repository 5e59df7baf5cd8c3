package seeders

import (
	"gorm.io/gorm"

	"github.com/stockpile-io/stockpile/app/models"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts inserts a small demo catalog. Existing names are left
// untouched so the seeder can run repeatedly.
func SeedProducts(db *gorm.DB) error {
	demo := []models.Product{
		{Name: "Home Shirt", Description: "green shirt, 2014 kit", Price: 1.0, Amount: 5},
		{Name: "Away Shorts", Description: "white shorts, 2014 kit", Price: 2.0, Amount: 10},
		{Name: "Team Socks", Description: "green socks, 2014 kit", Price: 3.0, Amount: 25},
	}

	for _, p := range demo {
		var existing models.Product
		err := db.Where("name = ?", p.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}
