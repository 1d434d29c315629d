package transport

import (
	"time"

	"github.com/AliakbarCal15/Internship-Task-39/internal/checkout"
	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
	"github.com/AliakbarCal15/Internship-Task-39/internal/pricing"
	"github.com/AliakbarCal15/Internship-Task-39/internal/tracker"
)

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type CouponRequest struct {
	Code string `json:"code"`
}

type WishlistRequest struct {
	ProductID string `json:"product_id"`
}

type CheckoutRequest struct {
	Address       models.Address `json:"address"`
	PaymentMethod string         `json:"payment_method"`
}

type AdvanceOrderRequest struct {
	Description string `json:"description"`
}

// Money fields below are whole currency units, rounded only here.

type ProductResponse struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Seller             string   `json:"seller"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
	Price              int64    `json:"price"`
	EffectivePrice     int64    `json:"effective_price"`
	DiscountPercentage float64  `json:"discount_percentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
}

func NewProductResponse(p *models.Product) ProductResponse {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Brand:              p.Brand,
		Category:           p.Category,
		Seller:             p.Seller,
		Thumbnail:          p.Thumbnail,
		Images:             images,
		Price:              pricing.Display(p.Price),
		EffectivePrice:     pricing.Display(p.EffectivePrice()),
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Stock:              p.Stock,
	}
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ProductPage struct {
	Data []ProductResponse `json:"data"`
	Meta PageMeta          `json:"meta"`
}

type CartLine struct {
	ProductID          string  `json:"product_id"`
	Title              string  `json:"title"`
	Brand              string  `json:"brand"`
	Seller             string  `json:"seller"`
	Thumbnail          string  `json:"thumbnail"`
	Quantity           int     `json:"quantity"`
	ListPrice          int64   `json:"list_price"`
	UnitPrice          int64   `json:"unit_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	LineTotal          int64   `json:"line_total"`
}

type AppliedCoupon struct {
	Code               string  `json:"code"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

type CartResponse struct {
	Empty        bool           `json:"empty"`
	ItemCount    int            `json:"item_count"`
	Items        []CartLine     `json:"items"`
	Subtotal     int64          `json:"subtotal"`
	DeliveryFee  int64          `json:"delivery_fee"`
	FreeDelivery bool           `json:"free_delivery"`
	Discount     int64          `json:"discount"`
	Total        int64          `json:"total"`
	Coupon       *AppliedCoupon `json:"coupon,omitempty"`
}

// NewCartResponse renders a priced cart. An empty cart shows no fee.
func NewCartResponse(p pricing.PricedCart) CartResponse {
	if p.Empty() {
		return CartResponse{Empty: true, Items: []CartLine{}}
	}

	resp := CartResponse{
		Items:        make([]CartLine, 0, len(p.Lines)),
		Subtotal:     pricing.Display(p.Subtotal),
		DeliveryFee:  pricing.Display(p.DeliveryFee),
		FreeDelivery: p.DeliveryFee == 0,
		Discount:     pricing.Display(p.DiscountAmount),
		Total:        pricing.Display(p.Total),
	}
	for _, l := range p.Lines {
		resp.ItemCount += l.Quantity
		resp.Items = append(resp.Items, CartLine{
			ProductID:          l.Product.ID,
			Title:              l.Product.Title,
			Brand:              l.Product.Brand,
			Seller:             l.Product.Seller,
			Thumbnail:          l.Product.Thumbnail,
			Quantity:           l.Quantity,
			ListPrice:          pricing.Display(l.Product.Price),
			UnitPrice:          pricing.Display(l.UnitPrice),
			DiscountPercentage: l.Product.DiscountPercentage,
			LineTotal:          pricing.Display(l.LineTotal),
		})
	}
	if p.CouponCode != "" {
		resp.Coupon = &AppliedCoupon{Code: p.CouponCode, DiscountPercentage: p.CouponPercentage}
	}
	return resp
}

type WishlistResponse struct {
	Items []ProductResponse `json:"items"`
	// Missing lists saved ids the catalog no longer knows.
	Missing []string `json:"missing,omitempty"`
}

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

type OrderResponse struct {
	ID                string                `json:"id"`
	Status            models.OrderStatus    `json:"status"`
	StatusLabel       string                `json:"status_label"`
	Items             []OrderItemResponse   `json:"items"`
	Subtotal          int64                 `json:"subtotal"`
	DeliveryFee       int64                 `json:"delivery_fee"`
	Discount          int64                 `json:"discount"`
	Total             int64                 `json:"total"`
	CouponCode        string                `json:"coupon_code,omitempty"`
	PaymentMethod     string                `json:"payment_method"`
	DeliveryAddress   models.Address        `json:"delivery_address"`
	PlacedAt          time.Time             `json:"placed_at"`
	EstimatedDelivery time.Time             `json:"estimated_delivery"`
	StatusUpdates     []models.StatusUpdate `json:"status_updates"`
	Tracking          *tracker.View         `json:"tracking,omitempty"`
}

func NewOrderResponse(o *models.Order, withTracking bool) OrderResponse {
	resp := OrderResponse{
		ID:                o.ID,
		Status:            o.Status,
		StatusLabel:       tracker.Label(o.Status),
		Items:             make([]OrderItemResponse, 0, len(o.Items)),
		Subtotal:          pricing.Display(o.Subtotal),
		DeliveryFee:       pricing.Display(o.DeliveryFee),
		Discount:          pricing.Display(o.DiscountAmount),
		Total:             pricing.Display(o.TotalAmount),
		CouponCode:        o.CouponCode,
		PaymentMethod:     o.PaymentMethod,
		DeliveryAddress:   o.DeliveryAddress,
		PlacedAt:          o.PlacedAt,
		EstimatedDelivery: o.EstimatedDelivery,
		StatusUpdates:     o.StatusUpdates,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID: it.ProductID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: pricing.Display(it.UnitPrice),
			LineTotal: pricing.Display(it.UnitPrice * float64(it.Quantity)),
		})
	}
	if withTracking {
		view := tracker.Progress(o)
		resp.Tracking = &view
	}
	return resp
}

type PlacementResponse struct {
	State string         `json:"state"`
	Order *OrderResponse `json:"order,omitempty"`
	Error string         `json:"error,omitempty"`
}

func NewPlacementResponse(p *checkout.Placement) PlacementResponse {
	snap := p.Snapshot()
	resp := PlacementResponse{State: snap.State.String()}
	if snap.State != checkout.StateSettled {
		return resp
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
		return resp
	}
	if snap.Order != nil {
		o := NewOrderResponse(snap.Order, false)
		resp.Order = &o
	}
	return resp
}
