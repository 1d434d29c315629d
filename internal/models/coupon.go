package models

import "strings"

type Coupon struct {
	Code               string  `gorm:"primaryKey"          json:"code"`
	DiscountPercentage float64 `gorm:"not null"            json:"discount_percentage"`
	MinimumSubtotal    float64 `gorm:"not null;default:0"  json:"minimum_subtotal"`
	Description        string  `json:"description"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// NormalizeCouponCode is the canonical form coupon codes are stored and looked up in.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
