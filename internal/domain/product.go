package domain

import "time"

// Product status values
const (
	ProductActive   = "Active"
	ProductInactive = "Inactive"
)

// Product is a catalog item owned by a shop. Stock is a pointer so that
// "unset" survives the round trip distinct from zero.
type Product struct {
	ID                 int64     `json:"id,string" form:"id"`
	ShopID             int64     `gorm:"index" json:"shop_id,string" form:"shop_id"`
	CategoryID         int64     `gorm:"index" json:"category_id,string" form:"category_id"`
	Name               string    `gorm:"index" json:"name" form:"name"`
	Slug               string    `gorm:"index" json:"slug" form:"slug"`
	Description        string    `gorm:"type:text" json:"description" form:"description"`
	Tags               string    `json:"tags" form:"tags"`
	OriginalPrice      float64   `json:"original_price" form:"original_price"`
	DiscountPrice      float64   `json:"discount_price" form:"discount_price"`
	Stock              *int      `json:"stock" form:"stock"`
	SoldOut            int       `json:"sold_out" form:"sold_out"`
	Sizes              string    `json:"sizes" form:"sizes"`   // comma separated
	Colors             string    `json:"colors" form:"colors"` // comma separated
	Status             string    `gorm:"size:32;index;default:'Active'" json:"status" form:"status"`
	TransportationType *string   `gorm:"size:64" json:"transportation_type" form:"transportation_type"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Images []ProductImage `gorm:"foreignKey:ProductID" json:"images"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "mkt_product"
}

// ProductImage is one ordered image of a product.
type ProductImage struct {
	ID        int64     `json:"id,string" form:"id"`
	ProductID int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	URL       string    `gorm:"size:1024" json:"url" form:"url"`
	Position  int       `json:"position" form:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (ProductImage) TableName() string {
	return "mkt_product_image"
}

// Category is a global product category maintained by admins.
type Category struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Image     string    `gorm:"size:1024" json:"image" form:"image"`
	Sort      int       `json:"sort" form:"sort"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "mkt_category"
}
