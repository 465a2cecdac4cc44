package entity

import (
	"fmt"
	"strings"
	"time"
)

type Table struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	Number   int         `gorm:"uniqueIndex;not null" json:"number"`
	QRCode   string      `gorm:"column:qr_code;uniqueIndex;not null" json:"qrCode"`
	Capacity int         `gorm:"not null" json:"capacity"`
	Status   TableStatus `gorm:"index;not null;default:available" json:"status"`
	Location string      `json:"location"`

	// set while an order is open at this table
	CurrentOrderID *uint  `json:"currentOrderId"`
	CurrentOrder   *Order `gorm:"foreignKey:CurrentOrderID" json:"currentOrder,omitempty"`

	ServiceCalls []ServiceCall `gorm:"foreignKey:TableID" json:"serviceCalls,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableURL is the customer-facing URL a table's QR code points to.
func TableURL(clientURL string, number int) string {
	return fmt.Sprintf("%s/table/%d", strings.TrimRight(clientURL, "/"), number)
}
