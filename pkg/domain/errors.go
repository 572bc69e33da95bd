package domain

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports that a lookup by identifier or natural key
// yielded nothing.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

// ConflictError reports a uniqueness or dependency violation, such as a
// duplicate email or a delete blocked by dependent rows.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// ValidationError reports a missing or out-of-range field in the caller's
// input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// SeatUnavailableError reports seats that were sold between selection and
// commit.
type SeatUnavailableError struct {
	SeatIDs []string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seats no longer available: %s", strings.Join(e.SeatIDs, ", "))
}

// StorageError wraps an underlying database failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsSeatUnavailable(err error) bool {
	var target *SeatUnavailableError
	return errors.As(err, &target)
}
