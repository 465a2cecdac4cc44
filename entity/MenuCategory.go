package entity

type MenuCategory string

const (
	CategoryAppetizers  MenuCategory = "appetizers"
	CategoryMainCourses MenuCategory = "main-courses"
	CategoryDesserts    MenuCategory = "desserts"
	CategoryBeverages   MenuCategory = "beverages"
	CategorySpecials    MenuCategory = "specials"
)

// MenuCategories lists the categories in menu display order.
var MenuCategories = []MenuCategory{
	CategoryAppetizers, CategoryMainCourses, CategoryDesserts, CategoryBeverages, CategorySpecials,
}

func (c MenuCategory) Valid() bool {
	for _, v := range MenuCategories {
		if c == v {
			return true
		}
	}
	return false
}
