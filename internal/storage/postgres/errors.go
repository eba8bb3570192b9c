package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jrose1022/SubTrack/internal/apperrors"
	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
	invalidText         = "22P02"
	numericOutOfRange   = "22003"
)

// checkID reports ids that cannot name a row of a UUID-keyed table as missing.
func checkID(entity, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NotFound(entity, id)
	}
	return nil
}

// classify turns constraint violations into caller errors; anything else is
// reported as a store failure by the ledger.
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return apperrors.Validation(columnFor(pqErr), "already exists")
	case foreignKeyViolation:
		return apperrors.NotFound("user", pqErr.Detail)
	case checkViolation:
		return apperrors.Validation(pqErr.Constraint, "violates %s", pqErr.Constraint)
	case invalidText:
		return apperrors.NotFound("record", pqErr.Message)
	case numericOutOfRange:
		return apperrors.Validation("amount", "is out of range")
	}
	return err
}

func columnFor(e *pq.Error) string {
	switch e.Constraint {
	case "users_auth_id_key":
		return "auth_id"
	case "users_email_lower_key":
		return "email"
	}
	if e.Column != "" {
		return e.Column
	}
	return e.Constraint
}
