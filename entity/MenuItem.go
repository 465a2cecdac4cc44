package entity

import "time"

// DefaultPreparationTime is used when a menu item has no preparation time set (minutes).
const DefaultPreparationTime = 15

type MenuItem struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	Name            string       `gorm:"not null" json:"name"`
	Description     string       `gorm:"not null" json:"description"`
	Price           int64        `gorm:"not null" json:"price"` // cents
	Category        MenuCategory `gorm:"index;not null" json:"category"`
	Image           string       `json:"image"`
	Available       bool         `gorm:"not null" json:"available"`
	PreparationTime int          `gorm:"not null;default:15" json:"preparationTime"`
	Ingredients     []string     `gorm:"serializer:json;type:text" json:"ingredients"`
	Allergens       []string     `gorm:"serializer:json;type:text" json:"allergens"`
	SpicyLevel      int          `gorm:"not null;default:0" json:"spicyLevel"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PrepMinutes returns the preparation time, falling back to DefaultPreparationTime.
func (m *MenuItem) PrepMinutes() int {
	if m.PreparationTime <= 0 {
		return DefaultPreparationTime
	}
	return m.PreparationTime
}
