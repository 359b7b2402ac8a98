// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting error strings. Validation failures never reach this layer;
// handlers short-circuit them before any persistence access.
package repository

import "errors"

// ErrRestaurantNotFound is returned when a restaurant does not exist
// or is inactive. Handlers translate this into an HTTP 404 response.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrTableNotFound is returned when a table does not exist or does not
// belong to the requested restaurant. Handlers translate this into an
// HTTP 404 response.
var ErrTableNotFound = errors.New("table not found")

// ErrBookingNotFound is returned when a booking does not exist or is
// not owned by the requesting user. Handlers translate this into an
// HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNotificationNotFound is returned when a notification does not
// exist for the given id and user. Handlers translate this into an
// HTTP 404 response.
var ErrNotificationNotFound = errors.New("notification not found")

// ErrAlreadyCancelled is returned when a cancel is attempted on a
// booking that is already cancelled. Handlers translate this into an
// HTTP 400 response; the table status is left untouched.
var ErrAlreadyCancelled = errors.New("booking already cancelled")
