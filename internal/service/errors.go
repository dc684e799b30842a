package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by GameService. Callers test them with errors.Is.
var (
	ErrNotAuthorized   = errors.New("not authorized")
	ErrOutOfSequence   = errors.New("out of sequence")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrStorage         = errors.New("storage failure")
)

// errRollback makes inTx roll back without reporting a failure
var errRollback = errors.New("rollback requested")

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func outOfSequence(reason string) error {
	return fmt.Errorf("%w: %s", ErrOutOfSequence, reason)
}
