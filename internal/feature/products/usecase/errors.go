package usecase

import "errors"

var (
	// ErrInvalidInput is returned when required fields are missing or the
	// price does not parse to a non-negative decimal.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when no product matches the given id.
	ErrNotFound = errors.New("product not found")

	// ErrForbidden is returned when the acting identity does not own the
	// product it tries to mutate.
	ErrForbidden = errors.New("not the product owner")

	// ErrUnsupportedMediaType is returned when the upload's file extension
	// or declared content type is outside the image allow-list.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrPayloadTooLarge is returned when the upload exceeds the size cap.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrStorageConflict is returned when the storage key already exists;
	// uploads are never overwritten in place.
	ErrStorageConflict = errors.New("storage conflict")
)
