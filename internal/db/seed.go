package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
)

func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID: "1", Title: "iPhone 13 Pro", Brand: "Apple", Category: "Smartphones", Seller: "Apple Store",
			Description: "6.1-inch Super Retina XDR display with ProMotion",
			Thumbnail:   "https://images.unsplash.com/photo-1632661674596-618d8b64d641?auto=format&fit=crop&w=400&q=80",
			Images:      models.ImageList{"https://images.unsplash.com/photo-1632661674596-618d8b64d641"},
			Price:       119900, DiscountPercentage: 10, Rating: 4.8, Stock: 50, Popularity: 980,
		},
		{
			ID: "2", Title: "Samsung Galaxy S21", Brand: "Samsung", Category: "Smartphones", Seller: "Samsung Official",
			Description: "Dynamic AMOLED 2X display, 8K video",
			Thumbnail:   "https://images.unsplash.com/photo-1610945265064-0e34e5519bbf?auto=format&fit=crop&w=400&q=80",
			Images:      models.ImageList{"https://images.unsplash.com/photo-1610945265064-0e34e5519bbf"},
			Price:       69999, DiscountPercentage: 15, Rating: 4.6, Stock: 75, Popularity: 870,
		},
		{
			ID: "3", Title: "Sony WH-1000XM4", Brand: "Sony", Category: "Headphones", Seller: "Sony Center",
			Description: "Wireless noise cancelling headphones",
			Price:       24990, DiscountPercentage: 20, Rating: 4.7, Stock: 120, Popularity: 760,
		},
		{
			ID: "4", Title: "Nike Air Max 270", Brand: "Nike", Category: "Footwear", Seller: "Nike Store",
			Description: "Lifestyle running shoes",
			Price:       12995, DiscountPercentage: 5, Rating: 4.4, Stock: 40, Popularity: 540,
		},
		{
			ID: "5", Title: "Puma Essentials Tee", Brand: "Puma", Category: "Clothing", Seller: "Puma Outlet",
			Description: "Regular fit cotton t-shirt",
			Price:       499, DiscountPercentage: 0, Rating: 4.1, Stock: 300, Popularity: 210,
		},
	}
}

func SeedCoupons() []models.Coupon {
	return []models.Coupon{
		{Code: "FIRST50", DiscountPercentage: 50, MinimumSubtotal: 1000, Description: "50% off your first order"},
		{Code: "SAVE10", DiscountPercentage: 10, MinimumSubtotal: 500, Description: "10% off orders above 500"},
	}
}

// Seed inserts the fixture catalog and coupon table, leaving existing rows alone.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := SeedProducts()
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error; err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		coupons := SeedCoupons()
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&coupons).Error; err != nil {
			return fmt.Errorf("seed coupons: %w", err)
		}
		return nil
	})
}
