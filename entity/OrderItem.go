package entity

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index;not null" json:"orderId"`

	MenuItemID uint      `gorm:"index;not null" json:"menuItemId"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID" json:"menuItem,omitempty"` // preload for display

	Quantity            int    `gorm:"not null" json:"quantity"`
	Price               int64  `gorm:"not null" json:"price"` // unit price at order time
	SpecialInstructions string `json:"specialInstructions"`
}

func (i OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
