package services

import (
	"errors"
	"fmt"

	"pasar/internal/repositories"
)

// Sentinel outcomes returned by the services. Handlers map them onto HTTP
// responses; anything else is an unexpected store failure.
var (
	ErrUserNotFound       = errors.New("unknown user")
	ErrProductNotFound    = errors.New("unknown product")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWriteFailed        = errors.New("store write failed")
	ErrInvalidQuery       = errors.New("invalid list query")
)

// notFoundAs replaces a repository miss with the resource's sentinel.
func notFoundAs(err, notFound error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return err
}

// translateWrite classifies the error of a mutation issued after an existence check.
// A miss here means the record vanished between the two round trips.
func translateWrite(op string, err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return notFound
	default:
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, op, err)
	}
}

// mutateExisting loads the record behind id and runs mutate on it. The lookup
// and the mutation are separate store calls and are not isolated from
// concurrent writers.
func mutateExisting[T any](id string, load func(string) (*T, error), notFound error, mutate func(*T) error) error {
	current, err := load(id)
	if err != nil {
		return notFoundAs(err, notFound)
	}
	return mutate(current)
}
