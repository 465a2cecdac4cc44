package entity

import "time"

// Permissions granted to the bootstrap admin.
var AllPermissions = []string{
	"manage-menu", "manage-orders", "manage-tables", "view-analytics", "manage-staff",
}

type Staff struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"uniqueIndex;not null" json:"username"`
	Password    string     `gorm:"not null" json:"-"` // bcrypt hash
	Role        Role       `gorm:"not null;default:staff" json:"role"`
	Permissions []string   `gorm:"serializer:json;type:text" json:"permissions"`
	IsActive    bool       `gorm:"not null" json:"isActive"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
