// Package cart holds the cart ledger: the ordered product/quantity entries of
// one shopping session plus at most one applied coupon.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
	"github.com/AliakbarCal15/Internship-Task-39/internal/repo"
)

var (
	ErrInvalidCoupon  = errors.New("invalid coupon")
	ErrCouponNotFound = errors.New("coupon code not found")
	ErrMinimumNotMet  = errors.New("minimum subtotal not met")
)

// MaxQuantity caps a single entry.
const MaxQuantity = 999

type Entry struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CouponTable resolves coupon codes. A miss is reported with an error
// matching repo.ErrNotFound.
type CouponTable interface {
	GetCoupon(ctx context.Context, code string) (*models.Coupon, error)
}

type Subtotaler interface {
	Subtotal(ctx context.Context, entries []Entry) (float64, error)
}

// Ledger is not safe for concurrent use; the owning session serialises access.
type Ledger struct {
	entries            []Entry
	couponCode         string
	discountPercentage float64
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) indexOf(productID string) int {
	for i := range l.entries {
		if l.entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add accumulates quantity onto an existing entry or appends a new one,
// saturating at MaxQuantity. Rejecting quantity <= 0 belongs to the caller.
func (l *Ledger) Add(productID string, quantity int) {
	quantity = min(quantity, MaxQuantity)
	if i := l.indexOf(productID); i >= 0 {
		l.entries[i].Quantity = min(l.entries[i].Quantity+quantity, MaxQuantity)
		return
	}
	l.entries = append(l.entries, Entry{ProductID: productID, Quantity: quantity})
}

func (l *Ledger) Remove(productID string) {
	i := l.indexOf(productID)
	if i < 0 {
		return
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
}

// SetQuantity never drops an entry: anything below 1 becomes 1 and anything
// above MaxQuantity becomes MaxQuantity.
func (l *Ledger) SetQuantity(productID string, quantity int) {
	i := l.indexOf(productID)
	if i < 0 {
		return
	}
	l.entries[i].Quantity = min(max(1, quantity), MaxQuantity)
}

// ApplyCoupon leaves the ledger untouched on any error. Eligibility failures
// match ErrInvalidCoupon; lookup or pricing backend failures are returned as is.
func (l *Ledger) ApplyCoupon(ctx context.Context, code string, coupons CouponTable, pricer Subtotaler) error {
	code = models.NormalizeCouponCode(code)
	if code == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCoupon, ErrCouponNotFound)
	}

	coupon, err := coupons.GetCoupon(ctx, code)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrInvalidCoupon, ErrCouponNotFound)
		}
		return fmt.Errorf("lookup coupon %s: %w", code, err)
	}
	// a coupon worth nothing would break "no discount iff no coupon"
	if coupon.DiscountPercentage <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCoupon, ErrCouponNotFound)
	}

	subtotal, err := pricer.Subtotal(ctx, l.Entries())
	if err != nil {
		return fmt.Errorf("subtotal for coupon %s: %w", code, err)
	}
	if subtotal < coupon.MinimumSubtotal {
		return fmt.Errorf("%w: %w", ErrInvalidCoupon, ErrMinimumNotMet)
	}

	l.couponCode = code
	l.discountPercentage = coupon.DiscountPercentage
	return nil
}

func (l *Ledger) RemoveCoupon() {
	l.couponCode = ""
	l.discountPercentage = 0
}

func (l *Ledger) Clear() {
	l.entries = nil
	l.RemoveCoupon()
}

// Entries returns a copy in insertion order.
func (l *Ledger) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

func (l *Ledger) Coupon() (code string, discountPercentage float64, ok bool) {
	return l.couponCode, l.discountPercentage, l.couponCode != ""
}

func (l *Ledger) DiscountPercentage() float64 {
	return l.discountPercentage
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

func (l *Ledger) Empty() bool {
	return len(l.entries) == 0
}

func (l *Ledger) Quantity(productID string) int {
	if i := l.indexOf(productID); i >= 0 {
		return l.entries[i].Quantity
	}
	return 0
}
