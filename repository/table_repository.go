package repository

import (
	"context"
	"time"

	"tableorder/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableRepository struct {
	DB *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{DB: db}
}

// FindByNumber loads a table; withOrder preloads the open order and its items.
func (r *TableRepository) FindByNumber(ctx context.Context, number int, withOrder bool) (*entity.Table, error) {
	q := r.DB.WithContext(ctx)
	if withOrder {
		q = q.Preload("CurrentOrder").Preload("CurrentOrder.Items").Preload("CurrentOrder.Items.MenuItem")
	}
	var t entity.Table
	if err := q.Where("number = ?", number).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// LockByNumber reads a table inside tx, locking the row where the dialect supports it.
func (r *TableRepository) LockByNumber(tx *gorm.DB, number int) (*entity.Table, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var t entity.Table
	if err := q.Where("number = ?", number).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) FindByID(ctx context.Context, id uint) (*entity.Table, error) {
	var t entity.Table
	if err := r.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) List(ctx context.Context) ([]entity.Table, error) {
	var out []entity.Table
	err := r.DB.WithContext(ctx).
		Preload("CurrentOrder").
		Order("number ASC").
		Find(&out).Error
	return out, err
}

func (r *TableRepository) NumberTaken(ctx context.Context, number int, exceptID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&entity.Table{}).
		Where("number = ? AND id <> ?", number, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *TableRepository) Create(ctx context.Context, t *entity.Table) error {
	return r.DB.WithContext(ctx).Omit("CurrentOrder", "ServiceCalls").Create(t).Error
}

func (r *TableRepository) Update(ctx context.Context, t *entity.Table) error {
	return r.DB.WithContext(ctx).Omit("CurrentOrder", "ServiceCalls").Save(t).Error
}

// Delete removes a table with its service calls and reports whether it existed.
func (r *TableRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var found bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&entity.Table{}, id)
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return tx.Where("table_id = ?", id).Delete(&entity.ServiceCall{}).Error
	})
	return found, err
}

// Claim marks the table occupied by orderID, unless another open order
// already holds it. Reports whether the claim succeeded.
func (r *TableRepository) Claim(tx *gorm.DB, tableID, orderID uint) (bool, error) {
	res := tx.Model(&entity.Table{}).
		Where("id = ? AND current_order_id IS NULL", tableID).
		Updates(map[string]any{"status": entity.TableOccupied, "current_order_id": orderID})
	return res.RowsAffected > 0, res.Error
}

// Detach clears a stale current-order reference so the table can be claimed.
func (r *TableRepository) Detach(tx *gorm.DB, tableID, orderID uint) error {
	return tx.Model(&entity.Table{}).
		Where("id = ? AND current_order_id = ?", tableID, orderID).
		Update("current_order_id", nil).Error
}

// Release frees the table held by orderID. Tables held by a different order
// are left alone.
func (r *TableRepository) Release(tx *gorm.DB, number int, orderID uint) (bool, error) {
	res := tx.Model(&entity.Table{}).
		Where("number = ? AND current_order_id = ?", number, orderID).
		Updates(map[string]any{"status": entity.TableAvailable, "current_order_id": nil})
	return res.RowsAffected > 0, res.Error
}

// SetStatus changes a table's status; moving to available also drops the
// current order reference.
func (r *TableRepository) SetStatus(ctx context.Context, id uint, status entity.TableStatus) error {
	fields := map[string]any{"status": status}
	if status == entity.TableAvailable {
		fields["current_order_id"] = nil
	}
	return r.DB.WithContext(ctx).Model(&entity.Table{}).Where("id = ?", id).Updates(fields).Error
}

type TableStats struct {
	Available int64 `json:"available"`
	Occupied  int64 `json:"occupied"`
	Total     int64 `json:"total"`
}

func (r *TableRepository) Stats(ctx context.Context) (TableStats, error) {
	var rows []struct {
		Status entity.TableStatus
		N      int64
	}
	err := r.DB.WithContext(ctx).Model(&entity.Table{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return TableStats{}, err
	}
	var s TableStats
	for _, row := range rows {
		switch row.Status {
		case entity.TableAvailable:
			s.Available = row.N
		case entity.TableOccupied:
			s.Occupied = row.N
		}
		s.Total += row.N
	}
	return s, nil
}

// ---------------- Service calls ----------------

func (r *TableRepository) AddServiceCall(ctx context.Context, call *entity.ServiceCall) error {
	return r.DB.WithContext(ctx).Create(call).Error
}

// ResolveServiceCall marks a call of the given table resolved and reports
// whether the call exists.
func (r *TableRepository) ResolveServiceCall(ctx context.Context, tableID, callID uint) (bool, error) {
	var n int64
	db := r.DB.WithContext(ctx)
	if err := db.Model(&entity.ServiceCall{}).
		Where("id = ? AND table_id = ?", callID, tableID).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	err := db.Model(&entity.ServiceCall{}).
		Where("id = ?", callID).
		Update("resolved", true).Error
	return true, err
}

func (r *TableRepository) ServiceCalls(ctx context.Context, tableID uint) ([]entity.ServiceCall, error) {
	var out []entity.ServiceCall
	err := r.DB.WithContext(ctx).
		Where("table_id = ?", tableID).
		Order("timestamp ASC").Order("id ASC").
		Find(&out).Error
	return out, err
}

type PendingServiceCall struct {
	ID            uint      `json:"id"`
	TableNumber   int       `json:"tableNumber"`
	TableLocation string    `json:"tableLocation"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
	Resolved      bool      `json:"resolved"`
}

// PendingServiceCalls flattens unresolved calls of every table, newest first.
func (r *TableRepository) PendingServiceCalls(ctx context.Context) ([]PendingServiceCall, error) {
	out := []PendingServiceCall{}
	err := r.DB.WithContext(ctx).Table("service_calls AS sc").
		Select("sc.id, t.number AS table_number, t.location AS table_location, sc.message, sc.timestamp, sc.resolved").
		Joins("JOIN tables t ON t.id = sc.table_id").
		Where("sc.resolved = ?", false).
		Order("sc.timestamp DESC").Order("sc.id DESC").
		Scan(&out).Error
	return out, err
}
