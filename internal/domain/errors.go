package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration marks configuration values the services refuse
// to compute with, such as a non-positive vehicle capacity.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrUnknownSite is returned when a site key is not configured.
var ErrUnknownSite = errors.New("unknown site")

// MissingFieldError reports a column absent from a source table.
// It points at a malformed source, not at a dirty row.
type MissingFieldError struct {
	Table string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("table %q: missing required field %q", e.Table, e.Field)
}

// InvariantViolation describes a join anomaly found while building a shift
// table. It is attached to the offending row instead of aborting the build.
type InvariantViolation struct {
	Site    string `json:"site,omitempty"`
	Shift   string `json:"shift"`
	Driver  string `json:"driver"`
	Matches int    `json:"matches"`
	Message string `json:"message"`
}

func (v InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation shift=%q driver=%q matches=%d: %s", v.Shift, v.Driver, v.Matches, v.Message)
}
