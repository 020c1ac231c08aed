package repository

import (
	"errors"

	"github.com/lib/pq"

	"github.com/seyio/bankledger/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

// mapInsertError translates a unique-key violation into domain.ErrDuplicateKey
// so callers can regenerate the id and retry.
func mapInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrDuplicateKey
	}
	return err
}
