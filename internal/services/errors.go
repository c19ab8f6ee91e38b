package services

import (
	"errors"
	"fmt"
)

var (
	ErrAuth        = errors.New("identity session could not be established")
	ErrPersistence = errors.New("record store unavailable")
	ErrValidation  = errors.New("validation failed")

	ErrRecordLocked = fmt.Errorf("%w: record is locked", ErrValidation)
	ErrFutureDate   = fmt.Errorf("%w: date is in the future", ErrValidation)
	ErrFutureLock   = fmt.Errorf("%w: future date cannot be locked", ErrValidation)
	ErrUnknownGoal  = fmt.Errorf("%w: unknown goal", ErrValidation)
	ErrInvalidRisk  = fmt.Errorf("%w: invalid emotional status", ErrValidation)
	ErrInvalidDate  = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrNotesTooLong = fmt.Errorf("%w: notes too long", ErrValidation)
	ErrNoHistory    = fmt.Errorf("%w: no records to export", ErrValidation)
	ErrUnknownCmd   = fmt.Errorf("%w: unknown command", ErrValidation)
)

// persistenceError tags a store failure so callers can match ErrPersistence
// while keeping the transport error in the chain.
func persistenceError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, operation, err)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
