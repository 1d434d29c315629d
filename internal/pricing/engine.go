// Package pricing derives cart totals. Nothing here is cached: every call
// recomputes from the entries and the catalog.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/AliakbarCal15/Internship-Task-39/internal/cart"
	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
	"github.com/AliakbarCal15/Internship-Task-39/internal/repo"
)

// CatalogLookup resolves product ids. A miss is reported with an error
// matching repo.ErrNotFound.
type CatalogLookup interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

type Config struct {
	DeliveryFee float64
	// Delivery is free only when the subtotal is strictly greater than this.
	FreeDeliveryAbove float64
}

func DefaultConfig() Config {
	return Config{DeliveryFee: 40, FreeDeliveryAbove: 500}
}

type Line struct {
	Product       models.Product `json:"product"`
	Quantity      int            `json:"quantity"`
	UnitPrice     float64        `json:"unit_price"`
	ListLineTotal float64        `json:"list_line_total"`
	LineTotal     float64        `json:"line_total"`
}

type PricedCart struct {
	Lines            []Line  `json:"lines"`
	Subtotal         float64 `json:"subtotal"`
	DeliveryFee      float64 `json:"delivery_fee"`
	DiscountAmount   float64 `json:"discount_amount"`
	Total            float64 `json:"total"`
	CouponCode       string  `json:"coupon_code,omitempty"`
	CouponPercentage float64 `json:"coupon_percentage"`
}

// Empty reports whether nothing in the cart could be priced.
func (p PricedCart) Empty() bool {
	return len(p.Lines) == 0
}

type Engine struct {
	Catalog CatalogLookup
	Config  Config
}

func NewEngine(catalog CatalogLookup, cfg Config) *Engine {
	return &Engine{Catalog: catalog, Config: cfg}
}

func UnitEffectivePrice(p *models.Product) float64 {
	return p.EffectivePrice()
}

func (e *Engine) DeliveryFee(subtotal float64) float64 {
	if subtotal > e.Config.FreeDeliveryAbove {
		return 0
	}
	return e.Config.DeliveryFee
}

func (e *Engine) lines(ctx context.Context, entries []cart.Entry) ([]Line, float64, error) {
	l := logging.FromContext(ctx)

	lines := make([]Line, 0, len(entries))
	var subtotal float64
	for _, entry := range entries {
		p, err := e.Catalog.GetProduct(ctx, entry.ProductID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				l.Debug("cart_entry_unresolvable", "product_id", entry.ProductID)
				continue
			}
			return nil, 0, fmt.Errorf("resolve product %s: %w", entry.ProductID, err)
		}

		unit := UnitEffectivePrice(p)
		line := Line{
			Product:       *p,
			Quantity:      entry.Quantity,
			UnitPrice:     unit,
			ListLineTotal: p.Price * float64(entry.Quantity),
			LineTotal:     unit * float64(entry.Quantity),
		}
		subtotal += line.LineTotal
		lines = append(lines, line)
	}
	return lines, subtotal, nil
}

// Subtotal satisfies cart.Subtotaler.
func (e *Engine) Subtotal(ctx context.Context, entries []cart.Entry) (float64, error) {
	_, subtotal, err := e.lines(ctx, entries)
	return subtotal, err
}

func (e *Engine) PriceEntries(ctx context.Context, entries []cart.Entry, couponPercentage float64) (PricedCart, error) {
	lines, subtotal, err := e.lines(ctx, entries)
	if err != nil {
		return PricedCart{}, err
	}

	delivery := e.DeliveryFee(subtotal)
	discount := subtotal * (couponPercentage / 100)

	return PricedCart{
		Lines:            lines,
		Subtotal:         subtotal,
		DeliveryFee:      delivery,
		DiscountAmount:   discount,
		Total:            subtotal + delivery - discount,
		CouponPercentage: couponPercentage,
	}, nil
}

func (e *Engine) Price(ctx context.Context, ledger *cart.Ledger) (PricedCart, error) {
	code, pct, _ := ledger.Coupon()
	priced, err := e.PriceEntries(ctx, ledger.Entries(), pct)
	if err != nil {
		return PricedCart{}, err
	}
	priced.CouponCode = code
	return priced, nil
}
