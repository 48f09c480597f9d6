package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

// Postgres error codes this package cares about.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqSerializationFail   = "40001"
	pqDeadlockDetected    = "40P01"
)

// translateError maps driver-level failures onto the domain taxonomy so
// use cases and handlers never have to inspect pq codes themselves.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, pqErr.Constraint)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: referenced row does not exist", domain.ErrInvalidRequest)
		case pqCheckViolation:
			return fmt.Errorf("%w: constraint violation: %s", domain.ErrInvalidRequest, pqErr.Constraint)
		case pqSerializationFail, pqDeadlockDetected:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Code)
		}
	}
	return err
}
