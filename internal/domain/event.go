package domain

import "time"

// Event status values. Status always derives from the running window; the
// sweep job repairs rows that drift.
const (
	EventRunning  = "Running"
	EventFinished = "Finished"
)

// Event is a time-boxed promotion with the product shape plus a running
// window.
type Event struct {
	ID            int64     `json:"id,string" form:"id"`
	ShopID        int64     `gorm:"index" json:"shop_id,string" form:"shop_id"`
	CategoryID    int64     `gorm:"index" json:"category_id,string" form:"category_id"`
	Name          string    `gorm:"index" json:"name" form:"name"`
	Description   string    `gorm:"type:text" json:"description" form:"description"`
	Tags          string    `json:"tags" form:"tags"`
	OriginalPrice float64   `json:"original_price" form:"original_price"`
	DiscountPrice float64   `json:"discount_price" form:"discount_price"`
	Stock         *int      `json:"stock" form:"stock"`
	SoldOut       int       `json:"sold_out" form:"sold_out"`
	StartDate     time.Time `gorm:"index" json:"start_date" form:"start_date"`
	FinishDate    time.Time `gorm:"index" json:"finish_date" form:"finish_date"`
	Status        string    `gorm:"size:32;index;default:'Running'" json:"status" form:"status"`
	Images        string    `gorm:"type:text" json:"images" form:"images"` // JSON array of URLs
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Event) TableName() string {
	return "mkt_event"
}

// WindowStatus returns the status the event should have at the given time.
func (e *Event) WindowStatus(now time.Time) string {
	if !e.FinishDate.IsZero() && now.After(e.FinishDate) {
		return EventFinished
	}
	return EventRunning
}
