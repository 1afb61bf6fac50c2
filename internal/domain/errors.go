package domain

import "errors"

// Common domain errors
var (
	// ErrDuplicateInvoice is returned when a candidate matches a stored
	// invoice on (supplier, total, date), either by the advisory
	// predicate before insert or by the storage unique index that closes
	// the check-then-insert race.
	ErrDuplicateInvoice = errors.New("duplicate invoice")

	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrUserNotFound    = errors.New("user not found")
)
