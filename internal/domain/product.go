package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxStock is the largest stock level the store can hold
const MaxStock = math.MaxInt32

// Product is a sellable item. Its category is reached through the subcategory.
type Product struct {
	ID            int64           `db:"id"`
	SKU           int64           `db:"sku"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Stock         int             `db:"stock"`
	ImageURL      string          `db:"image_url"`
	Active        bool            `db:"active"`
	CreatedAt     time.Time       `db:"created_at"`
	ModifiedAt    time.Time       `db:"modified_at"`
	SubcategoryID int64           `db:"subcategory_id"`
}

// ProductDetail is a product joined with its subcategory and that subcategory's category
type ProductDetail struct {
	Product
	Subcategory SubcategoryDetail
}

// StockChange is a single signed stock movement for a product
type StockChange struct {
	ProductID int64
	Quantity  int
}
