package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
	"github.com/AliakbarCal15/Internship-Task-39/internal/repo"
	"github.com/AliakbarCal15/Internship-Task-39/internal/util"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
)

// Catalog is implemented by the gorm and elasticsearch backends.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	Browse(ctx context.Context, f repo.ProductFilter) (int64, []models.Product, error)
}

type Filter struct {
	Query     string
	MinPrice  float64
	MaxPrice  float64
	Brands    []string
	Category  string
	MinRating float64
	Sort      string
	Page      int
	Size      int
}

type Page struct {
	Items      []models.Product
	Page       int
	Size       int
	Total      int64
	TotalPages int64
	HasPrev    bool
	HasNext    bool
}

type CatalogService struct {
	Repo Catalog
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: product id required", ErrValidation)
	}
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Browse(ctx context.Context, f Filter) (*Page, error) {
	if f.MinPrice < 0 || f.MaxPrice < 0 {
		return nil, fmt.Errorf("%w: price bounds must be >= 0", ErrValidation)
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return nil, fmt.Errorf("%w: min_price above max_price", ErrValidation)
	}
	if f.MinRating < 0 || f.MinRating > 5 {
		return nil, fmt.Errorf("%w: rating must be within 0..5", ErrValidation)
	}
	if f.Sort == "" {
		f.Sort = repo.SortPopularity
	}
	if !repo.ValidSort(f.Sort) {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrValidation, f.Sort)
	}

	page := max(f.Page, 1)
	offset, limit := util.Calculate(page, f.Size)

	total, items, err := s.Repo.Browse(ctx, repo.ProductFilter{
		Query:     strings.TrimSpace(f.Query),
		MinPrice:  f.MinPrice,
		MaxPrice:  f.MaxPrice,
		Brands:    f.Brands,
		Category:  f.Category,
		MinRating: f.MinRating,
		Sort:      f.Sort,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("browse catalog: %w", err)
	}

	return &Page{
		Items:      items,
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: util.TotalPages(total, limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}, nil
}
