package domain

// Category is the root of the catalogue hierarchy
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}
