package service

import (
	"database/sql"
	"errors"

	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
)

// storeError maps repository failures onto typed API errors.
func storeError(err error, notFound, conflict, internal string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	case conflict != "" && appErrors.IsUniqueViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict)
	case appErrors.IsForeignKeyViolation(err):
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, notFound)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
	}
}
