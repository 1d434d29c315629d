package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
)

const effectivePriceSQL = "price * (1 - discount_percentage / 100.0)"

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) Browse(ctx context.Context, f ProductFilter) (int64, []models.Product, error) {
	filtered := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Product{})
		if f.Query != "" {
			like := "%" + strings.ToLower(f.Query) + "%"
			q = q.Where("LOWER(title) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
		}
		if f.MinPrice > 0 {
			q = q.Where(effectivePriceSQL+" >= ?", f.MinPrice)
		}
		if f.MaxPrice > 0 {
			q = q.Where(effectivePriceSQL+" <= ?", f.MaxPrice)
		}
		if len(f.Brands) > 0 {
			q = q.Where("brand IN ?", f.Brands)
		}
		if f.Category != "" {
			q = q.Where("category = ?", f.Category)
		}
		if f.MinRating > 0 {
			q = q.Where("rating >= ?", f.MinRating)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, f.Limit)
	if err := filtered().Order(sortClause(f.Sort)).Order("id ASC").Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func sortClause(sort string) clause.OrderByColumn {
	switch sort {
	case SortPriceAsc:
		return clause.OrderByColumn{Column: clause.Column{Name: "price"}}
	case SortPriceDesc:
		return clause.OrderByColumn{Column: clause.Column{Name: "price"}, Desc: true}
	case SortRating:
		return clause.OrderByColumn{Column: clause.Column{Name: "rating"}, Desc: true}
	default:
		return clause.OrderByColumn{Column: clause.Column{Name: "popularity"}, Desc: true}
	}
}

func (r *GormRepo) UpsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&products).Error
}

func (r *GormRepo) AllProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
