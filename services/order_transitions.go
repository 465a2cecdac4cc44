// services/order_transitions.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tableorder/entity"

	"gorm.io/gorm"
)

type OrderStatusEvent struct {
	OrderID            uint               `json:"orderId"`
	OrderNumber        string             `json:"orderNumber"`
	Status             entity.OrderStatus `json:"status"`
	EstimatedReadyTime *time.Time         `json:"estimatedReadyTime,omitempty"`
}

type OrderCancelledEvent struct {
	OrderID     uint   `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Message     string `json:"message"`
}

// SetStatus moves an order to status. Any status may overwrite any other,
// except that cancelling is refused once the kitchen has started and for
// orders already completed or cancelled. Completing or cancelling releases
// the table in the same transaction.
func (s *OrderService) SetStatus(ctx context.Context, id uint, status entity.OrderStatus) (*entity.Order, error) {
	if !status.Valid() {
		return nil, Invalid("invalid status: %s", status)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.LockOrder(tx, id)
		if err != nil {
			return notFoundOr(err, "order")
		}

		if status == entity.OrderCancelled && !o.Status.Cancellable() {
			switch o.Status {
			case entity.OrderPreparing, entity.OrderReady:
				return Invalid("cannot cancel order that is being prepared")
			default:
				return Invalid("cannot cancel order that is %s", o.Status)
			}
		}

		fields := map[string]any{"status": status}
		if status == entity.OrderCompleted {
			fields["completed_at"] = s.Now()
		}
		if err := s.Repo.UpdateFields(tx, o.ID, fields); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if status.Terminal() {
			released, err := s.TableRepo.Release(tx, o.TableNumber, o.ID)
			if err != nil {
				return fmt.Errorf("release table: %w", err)
			}
			if !released {
				slog.WarnContext(ctx, "table not held by order", "order", o.OrderNumber, "table", o.TableNumber)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "order status changed", "order", order.OrderNumber, "status", order.Status)
	s.announce(order)
	return order, nil
}

// Cancel is SetStatus(cancelled).
func (s *OrderService) Cancel(ctx context.Context, id uint) (*entity.Order, error) {
	return s.SetStatus(ctx, id, entity.OrderCancelled)
}

// announce publishes the new status to the table; a cancellation is followed
// by order-cancelled.
func (s *OrderService) announce(o *entity.Order) {
	ch := TableChannel(o.TableNumber)
	ev := OrderStatusEvent{OrderID: o.ID, OrderNumber: o.OrderNumber, Status: o.Status}
	switch o.Status {
	case entity.OrderServed, entity.OrderCompleted, entity.OrderCancelled:
	default:
		ev.EstimatedReadyTime = o.EstimatedReadyTime
	}
	publish(s.Notify, ch, Event{Type: EventOrderStatusUpdated, Payload: ev})

	if o.Status == entity.OrderCancelled {
		publish(s.Notify, ch, Event{Type: EventOrderCancelled, Payload: OrderCancelledEvent{
			OrderID: o.ID, OrderNumber: o.OrderNumber, Message: "Your order has been cancelled",
		}})
	}
}
