// Package service holds the read (query) and write (maintenance) paths of the catalogue.
//
// Maintenance services check every precondition against the store before
// writing and run each operation inside one transaction, so a rejected
// request never leaves a partial write behind.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"

	"go.uber.org/zap"
)

// Transactor runs fn in a single all-or-nothing transaction.
// Repositories called with the ctx passed to fn join that transaction.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// now returns the server clock at the precision the store keeps
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// deletedMessage is the confirmation returned by every delete operation
func deletedMessage(entity domain.Entity, id int64) string {
	return fmt.Sprintf("%s %d deleted successfully", capitalize(string(entity)), id)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// notFoundAs translates a repository miss into the typed domain error for entity/id
func notFoundAs(err error, entity domain.Entity, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewNotFound(entity, id)
	}
	return err
}

// logStoreConflict flags a uniqueness violation raised by the store after the
// service pre-check passed (two concurrent writers). The error still surfaces as a generic failure.
func logStoreConflict(logger *zap.Logger, err error, entity domain.Entity) {
	if repository.IsUniqueViolation(err) {
		logger.Warn("Store rejected write after uniqueness pre-check", zap.String("entity", string(entity)), zap.Error(err))
	}
}
