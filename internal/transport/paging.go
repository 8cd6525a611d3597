package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"catalogo-api/internal/domain"
)

// pageRequest reads page, size and sort query parameters.
// sort takes the form "field" or "field,asc|desc".
func pageRequest(r *http.Request) (domain.PageRequest, error) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), 0)
	if err != nil || page < 0 {
		return domain.PageRequest{}, fmt.Errorf("page must be a non-negative integer")
	}
	if page > domain.MaxPage {
		return domain.PageRequest{}, fmt.Errorf("page must not exceed %d", domain.MaxPage)
	}

	size, err := intParam(q.Get("size"), domain.DefaultPageSize)
	if err != nil || size < 1 {
		return domain.PageRequest{}, fmt.Errorf("size must be a positive integer")
	}

	field, direction := domain.DefaultSort, domain.SortAsc
	if raw := strings.TrimSpace(q.Get("sort")); raw != "" {
		name, dir, hasDir := strings.Cut(raw, ",")
		if name = strings.TrimSpace(name); name != "" {
			field = name
		}
		if hasDir {
			switch strings.ToLower(strings.TrimSpace(dir)) {
			case "asc":
			case "desc":
				direction = domain.SortDesc
			default:
				return domain.PageRequest{}, fmt.Errorf("sort direction must be asc or desc")
			}
		}
	}

	return domain.NewPageRequest(page, size, field, direction), nil
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
