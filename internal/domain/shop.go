package domain

import "time"

// Shop template variants. The template controls which storefront layout a
// seller's pages render with; growthplan and proplan are paid tiers.
const (
	TemplateBasic      = "basic"
	TemplateGrowthPlan = "growthplan"
	TemplateProPlan    = "proplan"
)

// Shop is a seller account and its storefront in one record. IsActive is the
// admin approval flag; an unapproved shop can log in but only reaches the
// approval-pending surface.
type Shop struct {
	ID               int64      `json:"id,string" form:"id"`
	Name             string     `gorm:"index" json:"name" form:"name"`
	Email            string     `gorm:"uniqueIndex" json:"email" form:"email"`
	Password         string     `json:"-" form:"-"`
	Phone            string     `json:"phone" form:"phone"`
	Address          string     `json:"address" form:"address"`
	ZipCode          string     `json:"zip_code" form:"zip_code"`
	Avatar           string     `gorm:"size:1024" json:"avatar" form:"avatar"`
	Description      string     `json:"description" form:"description"`
	IsActive         bool       `gorm:"index" json:"is_active" form:"is_active"`
	Template         string     `gorm:"size:32;default:'basic'" json:"template" form:"template"`
	PlanExpireAt     *time.Time `json:"plan_expire_at"`
	AvailableBalance float64    `json:"available_balance"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Shop) TableName() string {
	return "mkt_shop"
}

// Withdraw is a seller's request to pay out available balance.
type Withdraw struct {
	ID        int64     `json:"id,string" form:"id"`
	ShopID    int64     `gorm:"index" json:"shop_id,string" form:"shop_id"`
	Amount    float64   `json:"amount" form:"amount"`
	Status    string    `gorm:"size:32;default:'processing'" json:"status" form:"status"` // processing|succeed|rejected
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Withdraw) TableName() string {
	return "mkt_withdraw"
}
