package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when a batch or report does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRegion is returned for a non-positive step, inverted bounds or an unknown axis.
	ErrInvalidRegion = errors.New("invalid region")
)
