// services/menu_service.go
package services

import (
	"context"
	"strings"

	"tableorder/entity"
	"tableorder/repository"
)

type MenuService struct {
	Repo *repository.MenuRepository
}

func NewMenuService(repo *repository.MenuRepository) *MenuService {
	return &MenuService{Repo: repo}
}

// MenuItemReq is used for both create and partial update; nil fields are left unchanged.
type MenuItemReq struct {
	Name            *string              `json:"name"`
	Description     *string              `json:"description"`
	Price           *int64               `json:"price"`
	Category        *entity.MenuCategory `json:"category"`
	Image           *string              `json:"image"`
	Available       *bool                `json:"available"`
	PreparationTime *int                 `json:"preparationTime"`
	Ingredients     []string             `json:"ingredients"`
	Allergens       []string             `json:"allergens"`
	SpicyLevel      *int                 `json:"spicyLevel"`
}

func (r *MenuItemReq) apply(m *entity.MenuItem) {
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.Price != nil {
		m.Price = *r.Price
	}
	if r.Category != nil {
		m.Category = *r.Category
	}
	if r.Image != nil {
		m.Image = *r.Image
	}
	if r.Available != nil {
		m.Available = *r.Available
	}
	if r.PreparationTime != nil {
		m.PreparationTime = *r.PreparationTime
	}
	if r.Ingredients != nil {
		m.Ingredients = r.Ingredients
	}
	if r.Allergens != nil {
		m.Allergens = r.Allergens
	}
	if r.SpicyLevel != nil {
		m.SpicyLevel = *r.SpicyLevel
	}
}

func validateMenuItem(m *entity.MenuItem) error {
	switch {
	case m.Name == "":
		return Invalid("name is required")
	case m.Description == "":
		return Invalid("description is required")
	case m.Price < 0:
		return Invalid("price must not be negative")
	case !m.Category.Valid():
		return Invalid("invalid category: %s", m.Category)
	case m.SpicyLevel < 0 || m.SpicyLevel > 5:
		return Invalid("spicyLevel must be between 0 and 5")
	case m.PreparationTime < 0:
		return Invalid("preparationTime must not be negative")
	}
	return nil
}

// List returns available items, or every item when all is set.
func (s *MenuService) List(ctx context.Context, category string, all bool) ([]entity.MenuItem, error) {
	if category != "" && !entity.MenuCategory(category).Valid() {
		return nil, Invalid("invalid category: %s", category)
	}
	return s.Repo.List(ctx, category, all)
}

func (s *MenuService) Get(ctx context.Context, id uint) (*entity.MenuItem, error) {
	m, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "menu item")
	}
	return m, nil
}

func (s *MenuService) Create(ctx context.Context, req *MenuItemReq) (*entity.MenuItem, error) {
	m := &entity.MenuItem{
		Available:       true,
		PreparationTime: entity.DefaultPreparationTime,
		Ingredients:     []string{},
		Allergens:       []string{},
	}
	req.apply(m)
	if m.PreparationTime == 0 {
		m.PreparationTime = entity.DefaultPreparationTime
	}
	if err := validateMenuItem(m); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MenuService) Update(ctx context.Context, id uint, req *MenuItemReq) (*entity.MenuItem, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(m)
	if err := validateMenuItem(m); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MenuService) Delete(ctx context.Context, id uint) error {
	ok, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound("menu item not found")
	}
	return nil
}

// Toggle flips availability.
func (s *MenuService) Toggle(ctx context.Context, id uint) (*entity.MenuItem, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Available = !m.Available
	if err := s.Repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MenuService) Categories(ctx context.Context) ([]string, error) {
	out, err := s.Repo.Categories(ctx)
	if out == nil {
		out = []string{}
	}
	return out, err
}
