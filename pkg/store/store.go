// Package store defines the remote key/value store contract that credential
// backends implement. Any service offering encrypted get/put/delete,
// prefix listing and resource tagging can back the manager.
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors backends use to classify domain-level outcomes.
// Anything else a backend returns is treated as an infrastructure fault.
var (
	// ErrKeyNotFound indicates the key has no live value in the store.
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyExists indicates a conditional write (Overwrite=false) was
	// rejected because the key already holds a value.
	ErrKeyExists = errors.New("key already exists")
)

// PutOptions controls a single write.
type PutOptions struct {
	// Overwrite selects between a conditional create (false) and an
	// unconditional replace (true). Backends must reject a non-overwrite
	// put against an existing key with ErrKeyExists using the store's own
	// atomicity guarantees, never a separate read.
	Overwrite bool

	// Description is a free-form info field stored alongside the value.
	Description string

	// Tags are attached to the stored resource. Backends that cannot
	// combine tagging with an overwrite apply them in a follow-up call.
	Tags map[string]string
}

// Metadata describes a stored key without exposing its value.
type Metadata struct {
	Key          string
	Description  string
	Type         string
	Version      int64
	LastModified time.Time
	Tags         map[string]string
}

// KeyValueStore is the protocol surface the credential manager consumes.
// All values are written with server-side encryption and read decrypted.
type KeyValueStore interface {
	// GetValue returns the decrypted value for key, or ErrKeyNotFound.
	GetValue(ctx context.Context, key string) (string, error)

	// PutValue writes value under key. With opts.Overwrite false it must
	// fail with ErrKeyExists when the key is already present.
	PutValue(ctx context.Context, key, value string, opts PutOptions) error

	// DeleteValue removes key, or returns ErrKeyNotFound.
	DeleteValue(ctx context.Context, key string) error

	// ListKeys enumerates all keys under the given prefix.
	ListKeys(ctx context.Context, prefix string) ([]string, error)

	// Describe returns metadata for key, or ErrKeyNotFound.
	Describe(ctx context.Context, key string) (Metadata, error)
}

// Validator is implemented by backends that can cheaply check their own
// connectivity and credentials. Used by the doctor command.
type Validator interface {
	Validate(ctx context.Context) error
}
