// Package repository holds the sentinel errors shared by every entity repository.
package repository

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an id does not resolve to a document.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert or replace trips a unique index.
	ErrDuplicate = errors.New("duplicate key")
	// ErrVersionConflict is returned when a versioned write lost a race with another writer.
	ErrVersionConflict = errors.New("version conflict")
)

// DefaultTimeout bounds a single repository round trip.
const DefaultTimeout = 5 * time.Second
