package entity

import "time"

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"orderNumber"`
	TableNumber int    `gorm:"index;not null" json:"tableNumber"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	Subtotal int64 `gorm:"not null" json:"subtotal"`
	Tax      int64 `gorm:"not null" json:"tax"`
	Total    int64 `gorm:"not null" json:"total"`

	Status        OrderStatus   `gorm:"index;not null;default:pending" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;default:pending" json:"paymentStatus"`
	PaymentMethod PaymentMethod `gorm:"not null;default:cash" json:"paymentMethod"`
	CustomerNotes string        `json:"customerNotes"`

	EstimatedReadyTime *time.Time `json:"estimatedReadyTime,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
