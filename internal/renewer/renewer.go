// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

// Package renewer keeps a service token fresh. Services that call their
// peers need a token of their own; Renewer mints one on startup, renews
// it before it expires, and fans each fresh token out to subscribers.
package renewer

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/wazo-platform/authkit/internal/verify"
	"github.com/wazo-platform/authkit/pkg/errutil"
)

// renewFraction is the portion of the expiration after which a token is
// renewed. Renewing at 80% leaves headroom for clock drift and slow calls.
const renewFraction = 0.8

// TokenMinter mints fresh service tokens. *authclient.Client satisfies it.
type TokenMinter interface {
	NewToken(ctx context.Context, expiration time.Duration) (*verify.TokenData, error)
}

// Callback receives each freshly minted token.
type Callback func(token string)

// Renewer periodically renews a service token. Construct with New, start
// with Run, register consumers with Subscribe.
type Renewer struct {
	minter     TokenMinter
	expiration time.Duration
	logger     *slog.Logger

	mu        sync.Mutex
	callbacks []Callback
	current   string
}

// New creates a Renewer minting tokens with the given expiration. A nil
// logger falls back to the process default.
func New(minter TokenMinter, expiration time.Duration, logger *slog.Logger) *Renewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renewer{
		minter:     minter,
		expiration: expiration,
		logger:     logger,
	}
}

// Subscribe registers a callback for freshly minted tokens. If a token
// has already been minted, the callback is invoked immediately with it,
// so late subscribers never miss the current token.
func (r *Renewer) Subscribe(cb Callback) {
	r.mu.Lock()
	r.callbacks = append(r.callbacks, cb)
	current := r.current
	r.mu.Unlock()

	if current != "" {
		cb(current)
	}
}

// CurrentToken returns the most recently minted token, or "" before the
// first successful renewal.
func (r *Renewer) CurrentToken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Run mints a token immediately, then renews on a fixed cadence until the
// context is cancelled. Renewal failures are logged and retried on the
// next tick; they are never fatal, since the previous token stays usable
// until its own expiration.
func (r *Renewer) Run(ctx context.Context) error {
	interval := time.Duration(float64(r.expiration) * renewFraction)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if err := r.renew(ctx); err != nil {
				errutil.LogWarn(r.logger, "token renewal failed", err)
			}
			timer.Reset(interval)
		}
	}
}

func (r *Renewer) renew(ctx context.Context) error {
	data, err := r.minter.NewToken(ctx, r.expiration)
	if err != nil {
		renewals.WithLabelValues("failure").Inc()
		return oops.In("renewer").
			Code("TOKEN_RENEWAL_FAILED").
			With("expiration", r.expiration.String()).
			Wrap(err)
	}

	renewals.WithLabelValues("success").Inc()

	r.mu.Lock()
	r.current = data.Token
	callbacks := slices.Clone(r.callbacks)
	r.mu.Unlock()

	// Callbacks run outside the lock; a slow consumer must not block
	// Subscribe or CurrentToken.
	for _, cb := range callbacks {
		cb(data.Token)
	}

	r.logger.DebugContext(ctx, "service token renewed",
		"subscribers", len(callbacks))
	return nil
}
