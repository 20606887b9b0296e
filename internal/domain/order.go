package domain

import "time"

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
)

// Next returns the status an order advances to when processed.
// Delivered is terminal.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case StatusProcessing:
		return StatusShipped
	case StatusShipped:
		return StatusDelivered
	default:
		return StatusDelivered
	}
}

// Valid reports whether the status is one of the three known states.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// ShippingInfo is the delivery address attached to an order.
type ShippingInfo struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	PinCode int    `json:"pinCode"`
}

// OrderItem is a single product line inside an order. Name, photo and price
// are denormalized at order time so the order remains renderable after the
// product changes.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Photo     string `json:"photo"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Order is a placed order owned by exactly one user.
type Order struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user"`
	ShippingInfo ShippingInfo `json:"shippingInfo"`
	Items        []OrderItem  `json:"orderItems"`

	Subtotal        int64 `json:"subtotal"`
	Tax             int64 `json:"tax"`
	ShippingCharges int64 `json:"shippingCharges"`
	Discount        int64 `json:"discount"`
	Total           int64 `json:"total"`

	Status OrderStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductIDs returns the distinct product ids referenced by the line items.
func (o Order) ProductIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
