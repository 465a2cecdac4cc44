package configs

import (
	"fmt"
	"log/slog"

	"tableorder/entity"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin from ADMIN_USERNAME/ADMIN_PASSWORD when no
// staff record exists yet.
func SeedAdmin(db *gorm.DB, cfg *Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		slog.Info("skip seeding admin: ADMIN_USERNAME/ADMIN_PASSWORD not set")
		return nil
	}

	var count int64
	if err := db.Model(&entity.Staff{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		slog.Info("staff already present, admin seed skipped", "count", count)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.Staff{
		Username:    cfg.AdminUsername,
		Password:    string(hash),
		Role:        entity.RoleAdmin,
		Permissions: entity.AllPermissions,
		IsActive:    true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	slog.Info("admin seeded", "username", admin.Username)
	return nil
}

var sampleMenu = []entity.MenuItem{
	{Name: "Spring Rolls", Description: "Fresh vegetables wrapped in rice paper, served with peanut sauce", Price: 899, Category: entity.CategoryAppetizers, PreparationTime: 10, Ingredients: []string{"rice paper", "lettuce", "cucumber", "carrots", "mint"}},
	{Name: "Chicken Wings", Description: "Crispy buffalo wings with celery and ranch dressing", Price: 1299, Category: entity.CategoryAppetizers, PreparationTime: 15, Ingredients: []string{"chicken wings", "buffalo sauce", "celery", "ranch"}, SpicyLevel: 2},
	{Name: "Mozzarella Sticks", Description: "Golden fried mozzarella with marinara sauce", Price: 999, Category: entity.CategoryAppetizers, PreparationTime: 12, Ingredients: []string{"mozzarella", "breadcrumbs", "marinara sauce"}, Allergens: []string{"dairy", "gluten"}},
	{Name: "Grilled Salmon", Description: "Atlantic salmon with lemon herb butter, served with vegetables", Price: 2499, Category: entity.CategoryMainCourses, PreparationTime: 20, Ingredients: []string{"salmon", "lemon", "herbs", "mixed vegetables"}, Allergens: []string{"fish"}},
	{Name: "Beef Steak", Description: "Premium ribeye steak with garlic mashed potatoes", Price: 2899, Category: entity.CategoryMainCourses, PreparationTime: 25, Ingredients: []string{"ribeye steak", "potatoes", "garlic", "butter"}},
	{Name: "Chicken Curry", Description: "Aromatic Thai red curry with jasmine rice", Price: 1899, Category: entity.CategoryMainCourses, PreparationTime: 18, Ingredients: []string{"chicken", "red curry paste", "coconut milk", "jasmine rice"}, SpicyLevel: 3},
	{Name: "Vegetarian Pasta", Description: "Fresh pasta with seasonal vegetables in tomato basil sauce", Price: 1699, Category: entity.CategoryMainCourses, PreparationTime: 15, Ingredients: []string{"pasta", "tomatoes", "basil", "seasonal vegetables"}, Allergens: []string{"gluten"}},
	{Name: "Chocolate Cake", Description: "Rich chocolate cake with vanilla ice cream", Price: 799, Category: entity.CategoryDesserts, PreparationTime: 5, Ingredients: []string{"chocolate cake", "vanilla ice cream", "chocolate sauce"}},
	{Name: "Tiramisu", Description: "Classic Italian dessert with coffee and mascarpone", Price: 899, Category: entity.CategoryDesserts, PreparationTime: 5, Ingredients: []string{"ladyfingers", "espresso", "mascarpone", "cocoa"}},
	{Name: "Fresh Orange Juice", Description: "Freshly squeezed orange juice", Price: 499, Category: entity.CategoryBeverages, PreparationTime: 3, Ingredients: []string{"fresh oranges"}},
	{Name: "Iced Coffee", Description: "Cold brew coffee with milk and sugar", Price: 399, Category: entity.CategoryBeverages, PreparationTime: 5, Ingredients: []string{"coffee beans", "milk", "ice"}},
	{Name: "Mango Smoothie", Description: "Tropical mango smoothie with yogurt", Price: 599, Category: entity.CategoryBeverages, PreparationTime: 5, Ingredients: []string{"mango", "yogurt", "honey", "ice"}},
	{Name: "Chef's Special Platter", Description: "Today's special combination of our finest dishes", Price: 3299, Category: entity.CategorySpecials, PreparationTime: 30, Ingredients: []string{"chef selection"}, SpicyLevel: 1},
}

// SeedSample fills an empty catalog and table registry with demo data. With
// reset, existing menu items, tables, service calls and orders are removed first.
func SeedSample(db *gorm.DB, clientURL string, tables int, reset bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if reset {
			for _, m := range []any{&entity.ServiceCall{}, &entity.Table{}, &entity.OrderItem{}, &entity.Order{}, &entity.MenuItem{}} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
					return fmt.Errorf("reset: %w", err)
				}
			}
		}

		var n int64
		if err := tx.Model(&entity.MenuItem{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			items := make([]entity.MenuItem, len(sampleMenu))
			copy(items, sampleMenu)
			for i := range items {
				items[i].Available = true
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
			slog.Info("menu seeded", "items", len(items))
		}

		for i := 1; i <= tables; i++ {
			location := "Main Dining"
			if i > tables/2 {
				location = "Terrace"
			}
			t := entity.Table{
				Number:   i,
				QRCode:   entity.TableURL(clientURL, i),
				Capacity: 2 + (i%4)*2,
				Status:   entity.TableAvailable,
				Location: location,
			}
			if err := tx.Where(entity.Table{Number: i}).FirstOrCreate(&t).Error; err != nil {
				return err
			}
		}
		slog.Info("tables seeded", "tables", tables)
		return nil
	})
}
