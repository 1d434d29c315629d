package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
)

// MemoryCatalog is a fixed, map-backed Catalog Lookup.
type MemoryCatalog struct {
	mu sync.RWMutex
	m  map[string]models.Product
}

func NewMemoryCatalog(products ...models.Product) *MemoryCatalog {
	c := &MemoryCatalog{m: make(map[string]models.Product, len(products))}
	for _, p := range products {
		c.m[p.ID] = p
	}
	return c
}

func (c *MemoryCatalog) Put(p models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[p.ID] = p
}

func (c *MemoryCatalog) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, id)
}

func (c *MemoryCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.m[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return &p, nil
}

type MemoryCoupons struct {
	mu sync.RWMutex
	m  map[string]models.Coupon
}

func NewMemoryCoupons(coupons ...models.Coupon) *MemoryCoupons {
	c := &MemoryCoupons{m: make(map[string]models.Coupon, len(coupons))}
	for _, cp := range coupons {
		cp.Code = models.NormalizeCouponCode(cp.Code)
		c.m[cp.Code] = cp
	}
	return c
}

func (c *MemoryCoupons) GetCoupon(_ context.Context, code string) (*models.Coupon, error) {
	code = models.NormalizeCouponCode(code)

	c.mu.RLock()
	defer c.mu.RUnlock()
	cp, ok := c.m[code]
	if !ok {
		return nil, fmt.Errorf("coupon %s: %w", code, ErrNotFound)
	}
	return &cp, nil
}
