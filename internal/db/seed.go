package db

import (
	"marketplace_backend/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"gorm.io/gorm" // GORM ORM library
)

// SeedCategories inserts the default product categories if they are missing.
// Existing rows are left untouched, so seeding is safe to run on every start.
func SeedCategories(db *gorm.DB) {
	categories := []domain.Category{
		{Name: "Electronics", Slug: "electronics"},
		{Name: "Fashion", Slug: "fashion"},
		{Name: "Home & Garden", Slug: "home-garden"},
		{Name: "Sporting Goods", Slug: "sporting-goods"},
		{Name: "Toys & Hobbies", Slug: "toys-hobbies"},
		{Name: "Motors", Slug: "motors"},
		{Name: "Collectibles", Slug: "collectibles"},
		{Name: "Other", Slug: "other"},
	}
	for _, category := range categories {
		var existing domain.Category
		// Only create the category when no row with that slug exists yet
		if err := db.Where("slug = ?", category.Slug).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&category).Error; err != nil {
					logrus.WithFields(logrus.Fields{
						"slug":  category.Slug,
						"error": err.Error(),
					}).Error("Failed to seed category")
				}
			}
		}
	}
	logrus.Info("Category seeding completed.")
}
