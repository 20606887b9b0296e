package domain

import "time"

// Coupon is a flat-amount discount code. Codes are unique.
type Coupon struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Amount int64  `json:"amount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
