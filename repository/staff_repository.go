package repository

import (
	"context"
	"time"

	"tableorder/entity"

	"gorm.io/gorm"
)

type StaffRepository struct {
	DB *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{DB: db}
}

func (r *StaffRepository) Count(tx *gorm.DB) (int64, error) {
	var n int64
	err := tx.Model(&entity.Staff{}).Count(&n).Error
	return n, err
}

func (r *StaffRepository) FindByID(ctx context.Context, id uint) (*entity.Staff, error) {
	var s entity.Staff
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StaffRepository) FindByUsername(ctx context.Context, username string) (*entity.Staff, error) {
	var s entity.Staff
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StaffRepository) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&entity.Staff{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&n).Error
	return n > 0, err
}

// List returns all staff, newest first.
func (r *StaffRepository) List(ctx context.Context) ([]entity.Staff, error) {
	out := []entity.Staff{}
	err := r.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, err
}

func (r *StaffRepository) Create(tx *gorm.DB, s *entity.Staff) error {
	return tx.Create(s).Error
}

func (r *StaffRepository) Save(ctx context.Context, s *entity.Staff) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

func (r *StaffRepository) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&entity.Staff{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

func (r *StaffRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Delete(&entity.Staff{}, id)
	return res.RowsAffected > 0, res.Error
}
