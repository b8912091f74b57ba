package domain

import "time"

// Courier is a delivery-partner account. IsActive is the admin approval
// flag; CreditBalance accumulates completed delivery fees.
type Courier struct {
	ID            int64     `json:"id,string" form:"id"`
	FullName      string    `gorm:"index" json:"fullname" form:"fullname"`
	Email         string    `gorm:"uniqueIndex" json:"email" form:"email"`
	Password      string    `json:"-" form:"-"`
	Phone         string    `json:"phone" form:"phone"`
	ChargePerKm   float64   `json:"charge_per_km" form:"charge_per_km"`
	IsActive      bool      `gorm:"index" json:"is_active" form:"is_active"`
	CreditBalance float64   `json:"credit_balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Areas []CourierArea `gorm:"foreignKey:CourierID" json:"areas"`
}

// TableName Specify table name
func (Courier) TableName() string {
	return "mkt_courier"
}

// CourierArea is one coverage area of a courier; assignment offers only go
// to couriers covering the order's shipping city/district.
type CourierArea struct {
	ID        int64     `json:"id,string" form:"id"`
	CourierID int64     `gorm:"index" json:"courier_id,string" form:"courier_id"`
	City      string    `gorm:"index" json:"city" form:"city"`
	District  string    `gorm:"index" json:"district" form:"district"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (CourierArea) TableName() string {
	return "mkt_courier_area"
}
