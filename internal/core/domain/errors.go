package domain

import "errors"

var (
	// ErrInvalidCredentials is returned when neither the static demo
	// table nor the identity provider accepts a credential pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserExists is returned on registration with a duplicate handle.
	ErrUserExists = errors.New("user already exists")

	// ErrRegistrationRejected covers provider-side registration failures
	// other than a duplicate handle.
	ErrRegistrationRejected = errors.New("registration rejected")

	// ErrPersistence marks a remote-store rejection of an insert, update
	// or delete. The store's message is wrapped alongside it.
	ErrPersistence = errors.New("persistence failure")

	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("access forbidden")
)
