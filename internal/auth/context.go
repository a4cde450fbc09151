// Package auth holds the client's authentication context: the persisted bearer
// credential and the policy applied when the API rejects it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tripdesk/pkg/credstore"
	"tripdesk/pkg/logger"
)

var ErrNoCredential = errors.New("no credential stored")

// Context is passed to the gateway at construction. It replaces a global token
// plus a hard-wired redirect: the store and the unauthorized callback are both
// injected.
type Context struct {
	store          credstore.Store
	onUnauthorized func()
	logger         *logger.Logger

	// serializes eviction with the callback so each 401 navigates exactly once
	mu sync.Mutex
}

// NewContext creates an authentication context. onUnauthorized may be nil.
func NewContext(store credstore.Store, onUnauthorized func(), log *logger.Logger) *Context {
	if onUnauthorized == nil {
		onUnauthorized = func() {}
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &Context{
		store:          store,
		onUnauthorized: onUnauthorized,
		logger:         log,
	}
}

// Credential returns the stored bearer token, or "" when none is present.
// Store failures are logged and treated as absence.
func (a *Context) Credential(ctx context.Context) string {
	token, err := a.store.Get(ctx, credstore.TokenKey)
	if err != nil {
		if !errors.Is(err, credstore.ErrNotFound) {
			a.logger.WithError(err).WarnContext(ctx, "Credential read failed")
		}
		return ""
	}
	return token
}

// SetCredential persists a token, replacing any previous one
func (a *Context) SetCredential(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("set credential: %w", ErrNoCredential)
	}
	if err := a.store.Set(ctx, credstore.TokenKey, token); err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	return nil
}

// Clear evicts the stored token
func (a *Context) Clear(ctx context.Context) error {
	if err := a.store.Delete(ctx, credstore.TokenKey); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// HandleUnauthorized evicts the credential and fires the unauthorized callback.
// It is called once per 401 response regardless of which caller issued the request.
func (a *Context) HandleUnauthorized(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.Clear(ctx); err != nil {
		a.logger.WithError(err).ErrorContext(ctx, "Credential eviction failed")
	}
	a.onUnauthorized()
}
