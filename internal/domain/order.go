package domain

import "time"

// Order status values. The lifecycle moves strictly forward except for the
// refund branch; the server is the only writer.
const (
	OrderProcessing     = "Processing"
	OrderTransferred    = "Transferred to delivery partner"
	OrderShipping       = "Shipping"
	OrderReceived       = "Received"
	OrderDelivered      = "Delivered"
	OrderCancelled      = "Cancelled"
	OrderRefundRequest  = "Refund Requested"
	OrderRefundApproved = "Refund Approved"
)

// Assignment status values
const (
	AssignPending   = "pending"
	AssignAccepted  = "accepted"
	AssignDeclined  = "declined"
	AssignCompleted = "completed"
)

// Order is one purchase from one shop. ShippingAddress is a JSON snapshot
// taken at checkout so later address edits never rewrite history.
type Order struct {
	ID              int64      `json:"id,string" form:"id"`
	UserID          int64      `gorm:"index" json:"user_id,string" form:"user_id"`
	ShopID          int64      `gorm:"index" json:"shop_id,string" form:"shop_id"`
	TotalPrice      float64    `json:"total_price" form:"total_price"`
	Status          string     `gorm:"size:64;index;default:'Processing'" json:"status" form:"status"`
	PaymentStatus   string     `gorm:"size:32;index" json:"payment_status" form:"payment_status"` // pending|succeeded|failed
	PaymentType     string     `gorm:"size:32" json:"payment_type" form:"payment_type"`
	ShippingAddress string     `gorm:"type:text" json:"shipping_address" form:"shipping_address"`
	ShippingCity    string     `gorm:"index" json:"shipping_city" form:"shipping_city"`
	PaidAt          *time.Time `json:"paid_at"`
	DeliveredAt     *time.Time `json:"delivered_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "mkt_order"
}

// OrderItem is one cart line of an order; name and price are snapshots.
type OrderItem struct {
	ID        int64     `json:"id,string" form:"id"`
	OrderID   int64     `gorm:"index" json:"order_id,string" form:"order_id"`
	ProductID int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	Name      string    `json:"name" form:"name"`
	Qty       int       `json:"qty" form:"qty"`
	UnitPrice float64   `json:"unit_price" form:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "mkt_order_item"
}

// OrderAssignment is a delivery offer to one courier for one order.
type OrderAssignment struct {
	ID          int64      `json:"id,string" form:"id"`
	OrderID     int64      `gorm:"index" json:"order_id,string" form:"order_id"`
	CourierID   int64      `gorm:"index" json:"courier_id,string" form:"courier_id"`
	Status      string     `gorm:"size:32;index;default:'pending'" json:"status" form:"status"`
	Fee         float64    `json:"fee" form:"fee"`
	OfferedAt   time.Time  `json:"offered_at"`
	RespondedAt *time.Time `json:"responded_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (OrderAssignment) TableName() string {
	return "mkt_order_assignment"
}

// Refund is a buyer's refund request against an order, resolved by the shop.
type Refund struct {
	ID        int64     `json:"id,string" form:"id"`
	OrderID   int64     `gorm:"index" json:"order_id,string" form:"order_id"`
	ShopID    int64     `gorm:"index" json:"shop_id,string" form:"shop_id"`
	Reason    string    `json:"reason" form:"reason"`
	Status    string    `gorm:"size:32;index;default:'requested'" json:"status" form:"status"` // requested|approved|rejected
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Refund) TableName() string {
	return "mkt_refund"
}
