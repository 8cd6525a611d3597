package domain

import (
	"errors"
	"fmt"
)

// Entity names a catalogue entity type in error reports
type Entity string

const (
	EntityCategory    Entity = "category"
	EntitySubcategory Entity = "subcategory"
	EntityProduct     Entity = "product"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockLimit        = errors.New("stock limit exceeded")
)

// NotFoundError reports that a targeted or referenced entity is absent.
// Criteria is set instead of ID when the lookup was not by id (empty listings, searches).
type NotFoundError struct {
	Entity   Entity
	ID       int64
	Criteria string
}

func NewNotFound(entity Entity, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func NewNotFoundBy(entity Entity, criteria string) *NotFoundError {
	return &NotFoundError{Entity: entity, Criteria: criteria}
}

func (e *NotFoundError) Error() string {
	if e.Criteria != "" {
		return fmt.Sprintf("no %s found %s", e.Entity, e.Criteria)
	}
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError reports a uniqueness violation detected before writing
type AlreadyExistsError struct {
	Entity Entity
	Field  string
	Value  any
}

func NewAlreadyExists(entity Entity, field string, value any) *AlreadyExistsError {
	return &AlreadyExistsError{Entity: entity, Field: field, Value: value}
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with %s %v already exists", e.Entity, e.Field, e.Value)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// InsufficientStockError reports a stock subtraction larger than the available stock
type InsufficientStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product with id %d has %d units in stock, %d requested", e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StockLimitError reports a stock return that would push stock past MaxStock
type StockLimitError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("product with id %d has %d units in stock, returning %d exceeds the limit of %d", e.ProductID, e.Available, e.Requested, MaxStock)
}

func (e *StockLimitError) Is(target error) bool {
	return target == ErrStockLimit
}
