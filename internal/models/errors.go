package models

import "errors"

var (
	// ErrStorageUnavailable wraps failures of the durable medium (engine
	// unavailable, quota exceeded). The operation is aborted with no
	// partial state written.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrPostNotFound indicates a post id that is not in the collection.
	ErrPostNotFound = errors.New("post not found")
)
