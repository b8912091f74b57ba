package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	&Scheduler{},
	// Accounts
	&SysUser{},
	&UserAddress{},
	&Shop{},
	&Courier{},
	&CourierArea{},
	// Catalog
	&Category{},
	&Product{},
	&ProductImage{},
	&Event{},
	&Coupon{},
	// Orders
	&Order{},
	&OrderItem{},
	&OrderAssignment{},
	&Refund{},
	&Withdraw{},
}
