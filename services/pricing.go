package services

import "tableorder/entity"

// TaxRatePercent is the flat sales tax applied to every order.
const TaxRatePercent = 10

// Totals is the price breakdown of an order or cart, in cents.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// Tax returns TaxRatePercent of subtotal, rounded half-up to the cent.
func Tax(subtotal int64) int64 {
	return (subtotal*TaxRatePercent + 50) / 100
}

func TotalsFor(subtotal int64) Totals {
	tax := Tax(subtotal)
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal + tax}
}

// AveragePrepMinutes is the mean preparation time of the menu items behind
// each line, one sample per line regardless of quantity.
func AveragePrepMinutes(items []*entity.MenuItem) float64 {
	if len(items) == 0 {
		return entity.DefaultPreparationTime
	}
	sum := 0
	for _, m := range items {
		sum += m.PrepMinutes()
	}
	return float64(sum) / float64(len(items))
}
