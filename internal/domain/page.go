package domain

import (
	"math"
	"strings"
)

// SortDirection is the ordering direction of a page request
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSort     = "id"

	// MaxPage keeps Page*MaxPageSize within int
	MaxPage = math.MaxInt / MaxPageSize
)

// PageRequest selects a zero-based page of a sorted result set
type PageRequest struct {
	Page      int
	Size      int
	Sort      string
	Direction SortDirection
}

// NewPageRequest returns a page request with defaults applied to zero values
func NewPageRequest(page, size int, sort string, direction SortDirection) PageRequest {
	if page < 0 {
		page = 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if sort == "" {
		sort = DefaultSort
	}
	if direction != SortDesc {
		direction = SortAsc
	}
	return PageRequest{Page: page, Size: size, Sort: sort, Direction: direction}
}

// Offset returns the number of rows preceding the requested page
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one slice of a larger sorted result set
type Page[T any] struct {
	Content       []T    `json:"content"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	Sort          string `json:"sort"`
}

// NewPage builds a page from its content and the total number of matching rows
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		Sort:          req.Sort + "," + strings.ToLower(string(req.Direction)),
	}
}

// MapPage projects the content of a page while keeping its paging metadata
func MapPage[T, V any](p Page[T], fn func(T) V) Page[V] {
	content := make([]V, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, fn(item))
	}
	return Page[V]{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Sort:          p.Sort,
	}
}
