package repository

import "errors"

var (
	// ErrNotFound indicates an entity was not located, or is not visible to the caller.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a uniqueness constraint rejected the write.
	ErrDuplicate = errors.New("repository: duplicate")
	// ErrStoreUnavailable indicates the backing store timed out or could not be reached.
	ErrStoreUnavailable = errors.New("repository: store unavailable")
)
