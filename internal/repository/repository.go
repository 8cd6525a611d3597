package repository

import (
	"errors"
	"fmt"
	"strings"

	"catalogo-api/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("record not found")
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err carries a PostgreSQL unique constraint violation
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// orderBy renders an ORDER BY clause from a page request.
// Sort fields are looked up in allowed to prevent SQL injection; unknown fields fall back to id.
func orderBy(req domain.PageRequest, allowed map[string]string) string {
	column, ok := allowed[req.Sort]
	if !ok {
		column = allowed[domain.DefaultSort]
	}

	direction := domain.SortAsc
	if req.Direction == domain.SortDesc {
		direction = domain.SortDesc
	}

	clause := fmt.Sprintf("ORDER BY %s %s", column, direction)
	if idColumn := allowed[domain.DefaultSort]; column != idColumn {
		// Stable paging when the sort column has duplicates
		clause += ", " + idColumn + " ASC"
	}
	return clause
}

// likePattern builds a case-insensitive substring pattern with LIKE wildcards escaped
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
