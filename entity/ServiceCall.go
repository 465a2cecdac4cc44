package entity

import "time"

// DefaultServiceMessage is stored when a service call carries no message.
const DefaultServiceMessage = "Service requested"

type ServiceCall struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TableID   uint      `gorm:"index;not null" json:"tableId"`
	Message   string    `json:"message"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	Resolved  bool      `gorm:"index;not null;default:false" json:"resolved"`
}
