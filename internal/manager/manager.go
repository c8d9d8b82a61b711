// Package manager implements the credential lifecycle: create, read,
// update, rotate, inspect and delete login/password pairs held in a remote
// encrypted key/value store.
//
// The manager is a stateless façade. It holds no cache and no mutable
// shared state, so a single Manager is safe for concurrent use; all
// concurrency control is delegated to the store's own atomicity guarantees.
package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	sperrors "github.com/ssmpass/ssmpass/internal/errors"
	"github.com/ssmpass/ssmpass/internal/logging"
	"github.com/ssmpass/ssmpass/internal/validation"
	"github.com/ssmpass/ssmpass/pkg/password"
	"github.com/ssmpass/ssmpass/pkg/store"
)

// DefaultPrefix namespaces all logins unless configured otherwise. Two
// managers with different prefixes see disjoint name spaces even against
// the same backing store.
const DefaultPrefix = "/passwords/"

// Standard tags applied to every stored record.
const (
	tagTypeKey   = "Type"
	tagTypeValue = "Password"
	tagLoginKey  = "Login"
)

// Manager composes the validator, the password generator and a remote
// store into the credential CRUD and rotation API.
type Manager struct {
	kv     store.KeyValueStore
	prefix string
	logger *logging.Logger
}

// Option is a functional option for configuring a Manager.
type Option func(*Manager)

// WithPrefix sets the storage prefix. Empty keeps the default.
func WithPrefix(prefix string) Option {
	return func(m *Manager) {
		if prefix != "" {
			m.prefix = prefix
		}
	}
}

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Manager on top of the given store.
func New(kv store.KeyValueStore, opts ...Option) *Manager {
	m := &Manager{
		kv:     kv,
		prefix: DefaultPrefix,
		logger: logging.New(false, false),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Prefix returns the configured storage prefix.
func (m *Manager) Prefix() string {
	return m.prefix
}

// Key maps a logical login name to its storage key. Pure function: the key
// is always prefix + login, nothing else.
func (m *Manager) Key(login string) string {
	return m.prefix + login
}

// LoginInfo is record metadata exposed to low-privilege introspection.
// It never carries the password.
type LoginInfo struct {
	Login        string            `json:"login"`
	Key          string            `json:"key"`
	Description  string            `json:"description,omitempty"`
	Type         string            `json:"type,omitempty"`
	Version      int64             `json:"version,omitempty"`
	LastModified time.Time         `json:"last_modified"`
	Tags         map[string]string `json:"tags,omitempty"`
}

// Create stores a new login. An empty password means "generate one" at the
// default length. The write is conditional: the store's own rejection of an
// existing key is the authoritative source of AlreadyExists — a client-side
// probe would admit a lost-update race between concurrent creates.
// Returns the password that was stored, generated or supplied.
func (m *Manager) Create(ctx context.Context, login, pw string) (string, error) {
	if err := validation.ValidateLogin(login); err != nil {
		return "", err
	}

	if pw == "" {
		generated, err := password.Generate(password.DefaultLength)
		if err != nil {
			return "", sperrors.Store("generate password", login, err)
		}
		pw = generated
	}

	m.logger.Debug("Creating login %s with password %s", login, logging.Secret(pw))

	err := m.kv.PutValue(ctx, m.Key(login), pw, store.PutOptions{
		Overwrite:   false,
		Description: recordDescription(login),
		Tags:        m.recordTags(login),
	})
	if err != nil {
		return "", m.classify(fmt.Sprintf("create login '%s'", login), login, err)
	}

	return pw, nil
}

// Get returns the decrypted password for login.
func (m *Manager) Get(ctx context.Context, login string) (string, error) {
	if err := validation.ValidateLogin(login); err != nil {
		return "", err
	}

	value, err := m.kv.GetValue(ctx, m.Key(login))
	if err != nil {
		return "", m.classify(fmt.Sprintf("get password for login '%s'", login), login, err)
	}
	return value, nil
}

// Update overwrites the password of an existing login. Absence is an error:
// an unconditional overwrite-put would silently create the record instead.
// Idempotent under retry — the same login and password yield the same end
// state. Last writer wins between concurrent updates.
func (m *Manager) Update(ctx context.Context, login, pw string) error {
	if err := validation.ValidateLogin(login); err != nil {
		return err
	}
	if err := validation.ValidatePassword(pw); err != nil {
		return err
	}

	// Existence gate. The subsequent overwrite is not conditional, so this
	// is where absence turns into NotFound.
	if _, err := m.Get(ctx, login); err != nil {
		return err
	}

	err := m.kv.PutValue(ctx, m.Key(login), pw, store.PutOptions{
		Overwrite:   true,
		Description: recordDescription(login),
		Tags:        m.recordTags(login),
	})
	if err != nil {
		return m.classify(fmt.Sprintf("update login '%s'", login), login, err)
	}

	m.logger.Debug("Updated password for login %s", login)
	return nil
}

// Rotate replaces the password of an existing login with a freshly
// generated one and returns the new value. A length of 0 selects the
// default. Identity and tags are preserved.
func (m *Manager) Rotate(ctx context.Context, login string, length int) (string, error) {
	if err := validation.ValidateLogin(login); err != nil {
		return "", err
	}
	if length == 0 {
		length = password.DefaultLength
	}
	if length < password.MinLength {
		return "", sperrors.Validation(login, fmt.Sprintf(
			"Password length must be at least %d (got %d)", password.MinLength, length))
	}

	if _, err := m.Get(ctx, login); err != nil {
		return "", err
	}

	pw, err := password.Generate(length)
	if err != nil {
		return "", sperrors.Store("generate password", login, err)
	}

	err = m.kv.PutValue(ctx, m.Key(login), pw, store.PutOptions{
		Overwrite:   true,
		Description: recordDescription(login),
		Tags:        m.recordTags(login),
	})
	if err != nil {
		return "", m.classify(fmt.Sprintf("rotate login '%s'", login), login, err)
	}

	m.logger.Debug("Rotated password for login %s", login)
	return pw, nil
}

// Exists reports whether login has a record. This is the one read that
// turns absence into a boolean instead of a NotFound error.
func (m *Manager) Exists(ctx context.Context, login string) (bool, error) {
	if err := validation.ValidateLogin(login); err != nil {
		return false, err
	}

	_, err := m.kv.GetValue(ctx, m.Key(login))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return false, nil
		}
		return false, m.classify(fmt.Sprintf("check login '%s'", login), login, err)
	}
	return true, nil
}

// List returns the logical login names under the prefix, sorted. Order is
// not semantically meaningful; callers should treat the result as a set.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	keys, err := m.kv.ListKeys(ctx, m.prefix)
	if err != nil {
		return nil, m.classify("list logins", "", err)
	}

	logins := make([]string, 0, len(keys))
	for _, key := range keys {
		logins = append(logins, strings.TrimPrefix(key, m.prefix))
	}
	sort.Strings(logins)
	return logins, nil
}

// Info returns record metadata, excluding the password.
func (m *Manager) Info(ctx context.Context, login string) (LoginInfo, error) {
	if err := validation.ValidateLogin(login); err != nil {
		return LoginInfo{}, err
	}

	md, err := m.kv.Describe(ctx, m.Key(login))
	if err != nil {
		return LoginInfo{}, m.classify(fmt.Sprintf("get info for login '%s'", login), login, err)
	}

	return LoginInfo{
		Login:        login,
		Key:          md.Key,
		Description:  md.Description,
		Type:         md.Type,
		Version:      md.Version,
		LastModified: md.LastModified,
		Tags:         md.Tags,
	}, nil
}

// Delete removes a login. Deleting an absent login is an error, not a
// silent no-op, so callers can detect double-delete bugs. Terminal: there
// is no tombstone and no history.
func (m *Manager) Delete(ctx context.Context, login string) error {
	if err := validation.ValidateLogin(login); err != nil {
		return err
	}

	if err := m.kv.DeleteValue(ctx, m.Key(login)); err != nil {
		return m.classify(fmt.Sprintf("delete login '%s'", login), login, err)
	}

	m.logger.Debug("Deleted login %s", login)
	return nil
}

// classify maps store sentinel errors onto the taxonomy. Anything the
// backend could not classify becomes a store-kind error with the cause
// preserved.
func (m *Manager) classify(operation, login string, err error) error {
	switch {
	case errors.Is(err, store.ErrKeyNotFound):
		return sperrors.NotFound(login)
	case errors.Is(err, store.ErrKeyExists):
		return sperrors.AlreadyExists(login)
	default:
		return sperrors.Store(operation, login, err)
	}
}

func (m *Manager) recordTags(login string) map[string]string {
	return map[string]string{
		tagTypeKey:  tagTypeValue,
		tagLoginKey: login,
	}
}

func recordDescription(login string) string {
	return fmt.Sprintf("Password for login: %s", login)
}
