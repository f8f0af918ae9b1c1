// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package verify

import (
	"context"
	"errors"
	"fmt"
)

// TokenData is the remote representation of a token.
type TokenData struct {
	Token    string
	Metadata TokenMetadata
}

// TokenMetadata carries the identity claims attached to a token.
type TokenMetadata struct {
	UUID       string         // user uuid
	TenantUUID string
	Claims     map[string]any // remaining claims, passed through untouched
}

// TenantData is one tenant entry returned by the auth service.
type TenantData struct {
	UUID string
	Name string
}

// Classified outcomes an AuthClient implementation reports through errors.
var (
	// ErrTokenInvalid means the token is unknown or expired.
	ErrTokenInvalid = errors.New("invalid or expired token")

	// ErrMissingPermission means the token is valid but lacks the required
	// ACL or tenant combination.
	ErrMissingPermission = errors.New("missing permission or invalid tenant combination")
)

// TransportError wraps a network-level failure reaching the auth service.
// The verifier maps it to the 503 taxonomy using the client's configured
// host and port.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("auth service transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError reports an HTTP-level response outside the classified
// outcomes. A 401 on the tenant listing endpoint gets special handling in
// Token.VisibleTenants.
type RemoteError struct {
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("auth service returned status %d: %v", e.Status, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// AuthClient is the narrow boundary to the remote authentication service.
// Calls are synchronous blocking I/O; timeouts and retries are the
// implementation's concern, never this layer's.
type AuthClient interface {
	// CheckToken verifies token validity against a required access,
	// scoped to a tenant when tenantUUID is non-empty. Failures are
	// classified as ErrTokenInvalid, ErrMissingPermission, or a
	// *TransportError.
	CheckToken(ctx context.Context, tokenID, requiredACL, tenantUUID string) (bool, error)

	// GetToken fetches the full token metadata.
	GetToken(ctx context.Context, tokenID string) (*TokenData, error)

	// ListTenants lists the tenants visible under the given tenant.
	ListTenants(ctx context.Context, tenantUUID string) ([]TenantData, error)

	// Host and Port identify the configured remote endpoint for error
	// reporting.
	Host() string
	Port() int
}
