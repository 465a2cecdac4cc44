package entity

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// ActiveOrderStatuses are the in-flight statuses counted on the dashboard.
var ActiveOrderStatuses = []OrderStatus{OrderPending, OrderConfirmed, OrderPreparing, OrderReady}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady,
		OrderServed, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether the order no longer holds its table.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Cancellable reports whether an order in this status may still be cancelled.
// Once the kitchen has started, cancellation is refused.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderPreparing, OrderReady, OrderCompleted, OrderCancelled:
		return false
	}
	return true
}
