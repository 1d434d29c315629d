package models

type Product struct {
	ID                 string         `gorm:"primaryKey"             json:"id"`
	Title              string         `gorm:"not null"               json:"title"`
	Description        string         `gorm:"not null;default:''"    json:"description"`
	Brand              string         `gorm:"index;not null"         json:"brand"`
	Category           string         `gorm:"index;not null"         json:"category"`
	Seller             string         `json:"seller"`
	Thumbnail          string         `json:"thumbnail"`
	Images             ImageList      `json:"images"`
	Price              float64        `gorm:"not null;check:price>=0" json:"price"`
	DiscountPercentage float64        `gorm:"not null;default:0"     json:"discount_percentage"`
	Rating             float64        `gorm:"not null;default:0"     json:"rating"`
	Stock              int            `gorm:"not null;default:0"     json:"stock"`
	Popularity         int            `gorm:"not null;default:0"     json:"popularity"`
}

func (Product) TableName() string {
	return "products"
}

// EffectivePrice is the list price after the product's own discount.
func (p *Product) EffectivePrice() float64 {
	return p.Price * (1 - p.DiscountPercentage/100)
}
