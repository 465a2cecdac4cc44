package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"tableorder/entity"
	"tableorder/repository"
	"tableorder/utils"

	"gorm.io/gorm"
)

const (
	// orderNumberAttempts bounds re-draws of a colliding order number.
	orderNumberAttempts = 5

	MaxItemQuantity = 999
	// MaxOrderSubtotal keeps every total, tax included, well inside int64.
	MaxOrderSubtotal int64 = 10_000_000_000
)

type OrderService struct {
	DB        *gorm.DB
	Repo      *repository.OrderRepository
	MenuRepo  *repository.MenuRepository
	TableRepo *repository.TableRepository
	Notify    Notifier

	Now       func() time.Time
	NewNumber func(time.Time) string
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	menuRepo *repository.MenuRepository,
	tableRepo *repository.TableRepository,
	notify Notifier,
) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, MenuRepo: menuRepo, TableRepo: tableRepo, Notify: notify,
		Now: time.Now, NewNumber: utils.NewOrderNumber,
	}
}

// ----- DTOs -----

type OrderItemIn struct {
	MenuItem            uint   `json:"menuItem" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,min=1,max=999"`
	SpecialInstructions string `json:"specialInstructions"`
}

type CreateOrderReq struct {
	TableNumber   int                  `json:"tableNumber" binding:"required"`
	Items         []OrderItemIn        `json:"items" binding:"required,min=1,dive"`
	CustomerNotes string               `json:"customerNotes"`
	PaymentMethod entity.PaymentMethod `json:"paymentMethod"`
}

type Quote struct {
	Totals
	Items              []entity.OrderItem `json:"items"`
	EstimatedReadyTime time.Time          `json:"estimatedReadyTime"`
}

func (req *CreateOrderReq) validate() error {
	if len(req.Items) == 0 {
		return Invalid("items is required")
	}
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return Invalid("quantity must be at least 1 for menu item %d", it.MenuItem)
		}
		if it.Quantity > MaxItemQuantity {
			return Invalid("quantity must be at most %d for menu item %d", MaxItemQuantity, it.MenuItem)
		}
	}
	if req.PaymentMethod != "" && !req.PaymentMethod.Valid() {
		return Invalid("invalid payment method: %s", req.PaymentMethod)
	}
	return nil
}

// price captures current catalog prices into line items. Every referenced
// menu item must exist and be available.
func (s *OrderService) price(db *gorm.DB, req *CreateOrderReq) (*Quote, error) {
	ids := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.MenuItem)
	}
	menu, err := s.MenuRepo.FindByIDs(db, ids)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	lines := make([]entity.OrderItem, 0, len(req.Items))
	used := make([]*entity.MenuItem, 0, len(req.Items))
	for _, it := range req.Items {
		m, ok := menu[it.MenuItem]
		if !ok || !m.Available {
			return nil, Invalid("menu item not available: %d", it.MenuItem)
		}
		line := entity.OrderItem{
			MenuItemID:          m.ID,
			Quantity:            it.Quantity,
			Price:               m.Price,
			SpecialInstructions: it.SpecialInstructions,
		}
		if line.Price > (MaxOrderSubtotal-subtotal)/int64(line.Quantity) {
			return nil, Invalid("order total exceeds the allowed maximum")
		}
		subtotal += line.LineTotal()
		lines = append(lines, line)
		used = append(used, m)
	}

	avg := AveragePrepMinutes(used)
	ready := s.Now().Add(time.Duration(math.Round(avg * float64(time.Minute))))
	return &Quote{Totals: TotalsFor(subtotal), Items: lines, EstimatedReadyTime: ready}, nil
}

// Quote prices an order request against the live catalog without placing it.
func (s *OrderService) Quote(ctx context.Context, req *CreateOrderReq) (*Quote, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	return s.price(s.DB.WithContext(ctx), req)
}

// ----- Create -----

// Create places an order for a table. The order insert and the table claim
// commit together or not at all.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderReq) (*entity.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	method := req.PaymentMethod
	if method == "" {
		method = entity.PaymentCash
	}

	var orderID uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		table, err := s.TableRepo.LockByNumber(tx, req.TableNumber)
		if err != nil {
			return notFoundOr(err, "table")
		}

		q, err := s.price(tx, req)
		if err != nil {
			return err
		}

		if table.CurrentOrderID != nil {
			open, err := s.Repo.IsOpen(tx, *table.CurrentOrderID)
			if err != nil {
				return err
			}
			if open {
				return Invalid("table %d already has an open order", table.Number)
			}
			if err := s.TableRepo.Detach(tx, table.ID, *table.CurrentOrderID); err != nil {
				return err
			}
		}

		number, err := s.uniqueNumber(tx)
		if err != nil {
			return err
		}
		ready := q.EstimatedReadyTime
		order := entity.Order{
			OrderNumber:        number,
			TableNumber:        table.Number,
			Items:              q.Items,
			Subtotal:           q.Subtotal,
			Tax:                q.Tax,
			Total:              q.Total,
			Status:             entity.OrderPending,
			PaymentStatus:      entity.PaymentPending,
			PaymentMethod:      method,
			CustomerNotes:      req.CustomerNotes,
			EstimatedReadyTime: &ready,
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		claimed, err := s.TableRepo.Claim(tx, table.ID, order.ID)
		if err != nil {
			return fmt.Errorf("claim table: %w", err)
		}
		if !claimed {
			return Invalid("table %d already has an open order", table.Number)
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "order created",
		"order", order.OrderNumber, "table", order.TableNumber, "total", order.Total)

	publish(s.Notify, StaffChannel, Event{Type: EventNewOrder, Payload: NewOrderEvent{
		Order:   order,
		Message: fmt.Sprintf("New order received from Table %d", order.TableNumber),
	}})
	return order, nil
}

type NewOrderEvent struct {
	Order   *entity.Order `json:"order"`
	Message string        `json:"message"`
}

func (s *OrderService) uniqueNumber(tx *gorm.DB) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		n := s.NewNumber(s.Now())
		taken, err := s.Repo.OrderNumberExists(tx, n)
		if err != nil {
			return "", err
		}
		if !taken {
			return n, nil
		}
	}
	return "", errors.New("could not allocate a unique order number")
}

// ----- Read -----

func (s *OrderService) Get(ctx context.Context, id uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order")
	}
	return o, nil
}

func (s *OrderService) ListByTable(ctx context.Context, tableNumber int) ([]entity.Order, error) {
	return s.Repo.ListByTable(ctx, tableNumber)
}

type OrderPage struct {
	Orders      []entity.Order `json:"orders"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	TotalOrders int64          `json:"totalOrders"`
}

func (s *OrderService) List(ctx context.Context, f repository.OrderFilter) (*OrderPage, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, Invalid("invalid status: %s", f.Status)
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 10
	}
	orders, total, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	pages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	return &OrderPage{Orders: orders, TotalPages: pages, CurrentPage: f.Page, TotalOrders: total}, nil
}
