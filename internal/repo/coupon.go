package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
)

func (r *GormRepo) GetCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	code = models.NormalizeCouponCode(code)

	var coupon models.Coupon
	if err := r.DB.WithContext(ctx).Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("coupon %s: %w", code, ErrNotFound)
		}
		return nil, err
	}
	return &coupon, nil
}
