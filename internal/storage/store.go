// Package storage provides the object store backing record images and
// PDFs: hierarchical listing plus time-limited signed URL issuance.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned when a signed URL is requested for an
// object that does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore defines the capability surface the record-detail assembler
// needs from document storage.
type ObjectStore interface {
	// List returns the object paths directly under prefix.
	// A missing prefix is an empty listing, not an error.
	List(ctx context.Context, prefix string) ([]string, error)

	// SignedURL returns a URL granting read access to the object at path
	// for the given TTL. Returns ErrObjectNotFound if the object is absent.
	SignedURL(path string, ttl time.Duration) (string, error)
}
