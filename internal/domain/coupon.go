package domain

import "time"

// Coupon is a shop-owned percentage discount code. MinAmount/MaxAmount and
// SelectedProductID are optional constraints; nil means unconstrained.
type Coupon struct {
	ID                int64      `json:"id,string" form:"id"`
	ShopID            int64      `gorm:"index" json:"shop_id,string" form:"shop_id"`
	Name              string     `gorm:"index" json:"name" form:"name"`
	Value             float64    `json:"value" form:"value"` // percentage 0-100
	MinAmount         *float64   `json:"min_amount" form:"min_amount"`
	MaxAmount         *float64   `json:"max_amount" form:"max_amount"`
	SelectedProductID *int64     `json:"selected_product_id,string" form:"selected_product_id"`
	ExpiresAt         *time.Time `gorm:"index" json:"expires_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Coupon) TableName() string {
	return "mkt_coupon"
}
