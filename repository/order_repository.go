package repository

import (
	"context"
	"time"

	"tableorder/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

// CreateOrder inserts the order together with its line items.
func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) OrderNumberExists(tx *gorm.DB, number string) (bool, error) {
	var n int64
	err := tx.Model(&entity.Order{}).Where("order_number = ?", number).Count(&n).Error
	return n > 0, err
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Items.MenuItem")
}

// GetOrder loads an order with its items and their menu items.
func (r *OrderRepository) GetOrder(ctx context.Context, id uint) (*entity.Order, error) {
	var o entity.Order
	if err := withItems(r.DB.WithContext(ctx)).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// LockOrder reads the order row inside tx, locking it where the dialect supports it.
func (r *OrderRepository) LockOrder(tx *gorm.DB, id uint) (*entity.Order, error) {
	var o entity.Order
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// IsOpen reports whether the order exists and is not completed or cancelled.
func (r *OrderRepository) IsOpen(tx *gorm.DB, id uint) (bool, error) {
	var n int64
	err := tx.Model(&entity.Order{}).
		Where("id = ? AND status NOT IN ?", id, []entity.OrderStatus{entity.OrderCompleted, entity.OrderCancelled}).
		Count(&n).Error
	return n > 0, err
}

func (r *OrderRepository) UpdateFields(tx *gorm.DB, id uint, fields map[string]any) error {
	return tx.Model(&entity.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (r *OrderRepository) ListByTable(ctx context.Context, tableNumber int) ([]entity.Order, error) {
	out := []entity.Order{}
	err := withItems(r.DB.WithContext(ctx)).
		Where("table_number = ?", tableNumber).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

type OrderFilter struct {
	Status      entity.OrderStatus
	TableNumber int
	// Day selects orders created on that calendar day (local time); zero means any.
	Day   time.Time
	Page  int
	Limit int
}

// List returns one page of orders matching f, newest first, and the total match count.
func (r *OrderRepository) List(ctx context.Context, f OrderFilter) ([]entity.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 10
	}

	q := r.DB.WithContext(ctx).Model(&entity.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.TableNumber > 0 {
		q = q.Where("table_number = ?", f.TableNumber)
	}
	if !f.Day.IsZero() {
		start := time.Date(f.Day.Year(), f.Day.Month(), f.Day.Day(), 0, 0, 0, 0, time.Local)
		q = q.Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	out := []entity.Order{}
	err := withItems(q).
		Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset((f.Page - 1) * f.Limit).
		Find(&out).Error
	return out, total, err
}

// ---------------- Aggregates ----------------

// Since loads orders created at or after start, with line items when withLines is set.
func (r *OrderRepository) Since(ctx context.Context, start time.Time, withLines bool) ([]entity.Order, error) {
	q := r.DB.WithContext(ctx)
	if withLines {
		q = withItems(q)
	}
	var out []entity.Order
	err := q.Where("created_at >= ?", start).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *OrderRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&entity.Order{}).
		Where("status IN ?", entity.ActiveOrderStatuses).
		Count(&n).Error
	return n, err
}

func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]entity.Order, error) {
	out := []entity.Order{}
	err := withItems(r.DB.WithContext(ctx)).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

type TopMenuItem struct {
	MenuItemID   uint   `json:"menuItemId"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Price        int64  `json:"price"`
	TotalOrdered int64  `json:"totalOrdered"`
	TotalRevenue int64  `json:"totalRevenue"`
}

// TopItems ranks menu items by quantity sold across all orders.
func (r *OrderRepository) TopItems(ctx context.Context, limit int) ([]TopMenuItem, error) {
	out := []TopMenuItem{}
	err := r.DB.WithContext(ctx).Table("order_items AS oi").
		Select(`oi.menu_item_id,
			COALESCE(m.name, '') AS name,
			COALESCE(m.category, '') AS category,
			COALESCE(m.price, 0) AS price,
			SUM(oi.quantity) AS total_ordered,
			SUM(oi.price * oi.quantity) AS total_revenue`).
		Joins("LEFT JOIN menu_items m ON m.id = oi.menu_item_id").
		Group("oi.menu_item_id, m.name, m.category, m.price").
		Order("total_ordered DESC").Order("oi.menu_item_id ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
