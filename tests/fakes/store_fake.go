package fakes

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ssmpass/ssmpass/pkg/store"
)

// Entry is a single record held by FakeStore.
type Entry struct {
	Value        string
	Description  string
	Version      int64
	LastModified time.Time
	Tags         map[string]string
}

// FakeStore is an in-memory store.KeyValueStore with the same conditional
// write and sentinel error semantics as the real backends. It is safe for
// concurrent use so manager-level concurrency behavior can be exercised.
type FakeStore struct {
	mu      sync.Mutex
	entries map[string]*Entry

	// ForcedErrors maps keys to errors every operation on them returns,
	// for exercising the store-fault classification path.
	ForcedErrors map[string]error

	// Ops records every store round trip, in order.
	Ops []string
}

// NewFakeStore creates an empty in-memory store.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		entries:      make(map[string]*Entry),
		ForcedErrors: make(map[string]error),
	}
}

// Seed inserts an entry directly, bypassing conditional-write checks.
func (f *FakeStore) Seed(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = &Entry{
		Value:        value,
		Version:      1,
		LastModified: time.Now(),
		Tags:         make(map[string]string),
	}
}

// SeedWithMetadata inserts an entry with a description and tags, bypassing
// conditional-write checks.
func (f *FakeStore) SeedWithMetadata(key, value, description string, tags map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := make(map[string]string, len(tags))
	for k, v := range tags {
		copied[k] = v
	}
	f.entries[key] = &Entry{
		Value:        value,
		Description:  description,
		Version:      1,
		LastModified: time.Now(),
		Tags:         copied,
	}
}

// Entry returns a copy of the stored entry and whether it exists.
func (f *FakeStore) Entry(key string) (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// OpCount reports how many store round trips were made.
func (f *FakeStore) OpCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Ops)
}

func (f *FakeStore) forced(key string) error {
	if err, ok := f.ForcedErrors[key]; ok {
		return err
	}
	return nil
}

// GetValue implements store.KeyValueStore.
func (f *FakeStore) GetValue(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ops = append(f.Ops, "get "+key)

	if err := f.forced(key); err != nil {
		return "", err
	}
	e, ok := f.entries[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", store.ErrKeyNotFound, key)
	}
	return e.Value, nil
}

// PutValue implements store.KeyValueStore. The overwrite check and the
// write happen under one lock, matching the remote store's atomicity.
func (f *FakeStore) PutValue(ctx context.Context, key, value string, opts store.PutOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ops = append(f.Ops, "put "+key)

	if err := f.forced(key); err != nil {
		return err
	}

	e, ok := f.entries[key]
	if ok && !opts.Overwrite {
		return fmt.Errorf("%w: %s", store.ErrKeyExists, key)
	}

	version := int64(1)
	if ok {
		version = e.Version + 1
	}
	tags := make(map[string]string, len(opts.Tags))
	for k, v := range opts.Tags {
		tags[k] = v
	}
	f.entries[key] = &Entry{
		Value:        value,
		Description:  opts.Description,
		Version:      version,
		LastModified: time.Now(),
		Tags:         tags,
	}
	return nil
}

// DeleteValue implements store.KeyValueStore.
func (f *FakeStore) DeleteValue(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ops = append(f.Ops, "delete "+key)

	if err := f.forced(key); err != nil {
		return err
	}
	if _, ok := f.entries[key]; !ok {
		return fmt.Errorf("%w: %s", store.ErrKeyNotFound, key)
	}
	delete(f.entries, key)
	return nil
}

// ListKeys implements store.KeyValueStore.
func (f *FakeStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ops = append(f.Ops, "list "+prefix)

	if err := f.forced(prefix); err != nil {
		return nil, err
	}
	var keys []string
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Describe implements store.KeyValueStore.
func (f *FakeStore) Describe(ctx context.Context, key string) (store.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ops = append(f.Ops, "describe "+key)

	if err := f.forced(key); err != nil {
		return store.Metadata{}, err
	}
	e, ok := f.entries[key]
	if !ok {
		return store.Metadata{}, fmt.Errorf("%w: %s", store.ErrKeyNotFound, key)
	}
	return store.Metadata{
		Key:          key,
		Description:  e.Description,
		Type:         "SecureString",
		Version:      e.Version,
		LastModified: e.LastModified,
		Tags:         e.Tags,
	}, nil
}

// Validate implements store.Validator.
func (f *FakeStore) Validate(ctx context.Context) error {
	return nil
}
