package domain

import "time"

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// SysUser is a buyer account; role "admin" grants the admin console.
type SysUser struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Email     string    `gorm:"uniqueIndex" json:"email" form:"email"`
	Password  string    `json:"-" form:"-"`
	Phone     string    `json:"phone" form:"phone"`
	Avatar    string    `gorm:"size:1024" json:"avatar" form:"avatar"`
	Role      string    `gorm:"size:32;index;default:'user'" json:"role" form:"role"`
	Status    string    `gorm:"size:32;default:'enabled'" json:"status" form:"status"`
	LastLogin time.Time `json:"last_login" form:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Addresses []UserAddress `gorm:"foreignKey:UserID" json:"addresses"`
}

// TableName Specify table name
func (SysUser) TableName() string {
	return "sys_user"
}

// UserAddress is one saved shipping address of a user.
type UserAddress struct {
	ID        int64     `json:"id,string" form:"id"`
	UserID    int64     `gorm:"index" json:"user_id,string" form:"user_id"`
	Country   string    `json:"country" form:"country"`
	City      string    `json:"city" form:"city"`
	Address1  string    `json:"address1" form:"address1"`
	Address2  string    `json:"address2" form:"address2"`
	ZipCode   string    `json:"zip_code" form:"zip_code"`
	AddrType  string    `gorm:"size:32" json:"addr_type" form:"addr_type"` // Default|Home|Office
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (UserAddress) TableName() string {
	return "sys_user_address"
}
