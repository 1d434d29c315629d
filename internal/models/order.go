package models

import "time"

type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
)

const (
	PaymentUPI  = "upi"
	PaymentCard = "card"
	PaymentCOD  = "cod"
)

func ValidPaymentMethod(id string) bool {
	switch id {
	case PaymentUPI, PaymentCard, PaymentCOD:
		return true
	}
	return false
}

type Address struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Pincode  string `json:"pincode"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Type     string `json:"type"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type StatusUpdate struct {
	Status      OrderStatus `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	Description string      `json:"description"`
}

// Order is a snapshot taken at placement. Item prices are frozen and
// StatusUpdates only ever grows.
type Order struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id"`
	Items             []OrderItem    `json:"items"`
	Subtotal          float64        `json:"subtotal"`
	DeliveryFee       float64        `json:"delivery_fee"`
	DiscountAmount    float64        `json:"discount_amount"`
	TotalAmount       float64        `json:"total_amount"`
	CouponCode        string         `json:"coupon_code,omitempty"`
	Status            OrderStatus    `json:"status"`
	PlacedAt          time.Time      `json:"placed_at"`
	EstimatedDelivery time.Time      `json:"estimated_delivery"`
	DeliveryAddress   Address        `json:"delivery_address"`
	PaymentMethod     string         `json:"payment_method"`
	StatusUpdates     []StatusUpdate `json:"status_updates"`
}

// Clone returns a copy that shares no slices with o.
func (o *Order) Clone() *Order {
	cp := *o
	cp.Items = append([]OrderItem(nil), o.Items...)
	cp.StatusUpdates = append([]StatusUpdate(nil), o.StatusUpdates...)
	return &cp
}
