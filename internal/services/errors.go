package services

import (
	"errors"
	"fmt"

	"github.com/iscsolutions/card_service/internal/domain"
)

var ErrNotFound = errors.New("not found")

// ErrDuplicateCard marks a card number that already exists for the owner.
var ErrDuplicateCard = errors.New("card number already exists")

// ValidationError reports a caller error on a write path, such as a nil
// account or owner on a card. Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// ConflictError reports a composite-uniqueness violation: the person
// already holds a card of this type from this issuer.
type ConflictError struct {
	NationalCode string
	CardType     domain.CardType
	IssuerName   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate card for national code %s: %s (%s)",
		e.NationalCode, e.CardType, e.IssuerName)
}

// SourceReadError means the bootstrap source could not be read at all.
// Fatal to the loader, unlike per-record errors.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read bootstrap data %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}
