package domain

import "errors"

var (
	// ErrListingNotFound is returned both when a listing does not exist and
	// when it exists but is owned by someone else. The two cases are
	// deliberately indistinguishable so that non-owners cannot probe for
	// existing ids.
	ErrListingNotFound = errors.New("listing not found or you do not have permission")

	ErrProfileNotFound = errors.New("profile not found")

	// ErrValidation marks client payload problems (missing fields, negative
	// price, image count out of bounds). Always detected before any
	// collaborator call.
	ErrValidation = errors.New("invalid listing data")

	// ErrUnauthenticated covers a missing, malformed, expired or otherwise
	// rejected bearer token.
	ErrUnauthenticated = errors.New("invalid or expired token")

	// ErrAuthProvider marks an unexpected failure of the auth collaborator
	// itself, distinct from a bad token so callers can answer 500 rather
	// than 401.
	ErrAuthProvider = errors.New("auth provider failure")

	// ErrInvalidFile is returned for an empty upload or one without a usable
	// name/extension.
	ErrInvalidFile = errors.New("invalid file")

	// ErrUploadFailed wraps transport or provider errors from the media host.
	ErrUploadFailed = errors.New("media upload failed")

	// ErrUpdateFailed is returned when a persist step matched zero rows after
	// the listing had already been fetched in the same request.
	ErrUpdateFailed = errors.New("listing update failed")
)
