package repository

import (
	"context"

	"tableorder/entity"

	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

// List returns menu items ordered by category then name. Unavailable items are
// skipped unless includeUnavailable is set; category may be empty.
func (r *MenuRepository) List(ctx context.Context, category string, includeUnavailable bool) ([]entity.MenuItem, error) {
	q := r.DB.WithContext(ctx).Model(&entity.MenuItem{})
	if !includeUnavailable {
		q = q.Where("available = ?", true)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var items []entity.MenuItem
	err := q.Order("category ASC").Order("name ASC").Find(&items).Error
	return items, err
}

func (r *MenuRepository) FindByID(ctx context.Context, id uint) (*entity.MenuItem, error) {
	var m entity.MenuItem
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByIDs loads the given items keyed by id; missing ids are absent from the map.
func (r *MenuRepository) FindByIDs(tx *gorm.DB, ids []uint) (map[uint]*entity.MenuItem, error) {
	var items []entity.MenuItem
	if err := tx.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]*entity.MenuItem, len(items))
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

func (r *MenuRepository) Create(ctx context.Context, m *entity.MenuItem) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *MenuRepository) Update(ctx context.Context, m *entity.MenuItem) error {
	return r.DB.WithContext(ctx).Save(m).Error
}

// Delete removes a menu item and reports whether it existed.
func (r *MenuRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Delete(&entity.MenuItem{}, id)
	return res.RowsAffected > 0, res.Error
}

// Categories lists the distinct categories that have at least one available item.
func (r *MenuRepository) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).Model(&entity.MenuItem{}).
		Where("available = ?", true).
		Distinct().Order("category ASC").
		Pluck("category", &out).Error
	return out, err
}
