package domain

// Subcategory belongs to exactly one Category
type Subcategory struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	CategoryID  int64  `db:"category_id"`
}

// SubcategoryDetail is a subcategory joined with its parent category
type SubcategoryDetail struct {
	Subcategory
	Category Category
}
