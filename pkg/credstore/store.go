// Package credstore persists the client's bearer credential.
//
// The client keeps exactly one key (see TokenKey). Backends are interchangeable:
// an embedded badger database on disk, a shared redis instance, or process memory.
package credstore

import (
	"context"
	"errors"
	"fmt"
)

// TokenKey is the single key the client persists
const TokenKey = "token"

// Store is a minimal string key/value store
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Error definitions
var (
	ErrNotFound      = errors.New("credential not found")
	ErrUnknownDriver = errors.New("unknown credential store driver")
)

// Options selects and configures a backend
type Options struct {
	Driver      string // badger, redis or memory
	BadgerPath  string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	RedisPrefix string
}

// Open returns the backend named by opts.Driver
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", "badger":
		return OpenBadger(opts.BadgerPath)
	case "redis":
		return OpenRedis(ctx, RedisConfig{
			Address:  opts.RedisAddr,
			Password: opts.RedisPass,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
		})
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
