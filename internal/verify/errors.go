// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package verify

import (
	"fmt"
	"net/http"
)

// Stable error ids surfaced to API consumers alongside the HTTP status.
const (
	ErrIDInvalidToken       = "invalid-token"
	ErrIDMissingPermission  = "missing-permission"
	ErrIDServerUnreachable  = "authentication-server-unreachable"
	ErrIDUnauthorizedTenant = "unauthorized-tenant"
	ErrIDInvalidTenant      = "invalid-tenant"
	ErrIDUnauthorized       = "unauthorized"
)

// APIError is satisfied by every categorized verification failure. The
// triple (status code, error id, details) is stable: host services
// serialize it directly without re-deriving context.
type APIError interface {
	error
	StatusCode() int
	ErrorID() string
	Details() map[string]any
}

// apiError carries the shared representation of a categorized failure.
type apiError struct {
	status  int
	id      string
	message string
	details map[string]any
}

func (e *apiError) Error() string           { return e.message }
func (e *apiError) StatusCode() int         { return e.status }
func (e *apiError) ErrorID() string         { return e.id }
func (e *apiError) Details() map[string]any { return e.details }

// InvalidTokenError reports an absent, unknown, or expired token.
type InvalidTokenError struct {
	apiError
	Token string
}

// NewInvalidTokenError builds the 401 invalid-token failure. The token may
// be empty when no token was supplied at all.
func NewInvalidTokenError(token string) *InvalidTokenError {
	return &InvalidTokenError{
		apiError: apiError{
			status:  http.StatusUnauthorized,
			id:      ErrIDInvalidToken,
			message: "invalid token or unknown token",
			details: map[string]any{"invalid_token": token},
		},
		Token: token,
	}
}

// MissingPermissionsError reports a valid token lacking the required
// ACL or tenant combination. The details are not a security leak: the
// caller already authenticated.
type MissingPermissionsError struct {
	apiError
	Token          string
	RequiredAccess string
	TenantUUID     string
}

// NewMissingPermissionsError builds the 401 missing-permission failure.
func NewMissingPermissionsError(token, requiredAccess, tenantUUID string) *MissingPermissionsError {
	return &MissingPermissionsError{
		apiError: apiError{
			status:  http.StatusUnauthorized,
			id:      ErrIDMissingPermission,
			message: fmt.Sprintf("missing permission %q", requiredAccess),
			details: map[string]any{
				"invalid_token":   token,
				"required_access": requiredAccess,
				"tenant_uuid":     tenantUUID,
			},
		},
		Token:          token,
		RequiredAccess: requiredAccess,
		TenantUUID:     tenantUUID,
	}
}

// AuthServerUnreachableError reports a transport-level failure reaching
// the authentication service. This layer never retries; retries belong to
// the client transport beneath it.
type AuthServerUnreachableError struct {
	apiError
	Host  string
	Port  int
	cause error
}

// NewAuthServerUnreachableError builds the 503 failure, carrying the
// configured host and port and the original error text.
func NewAuthServerUnreachableError(host string, port int, cause error) *AuthServerUnreachableError {
	var original string
	if cause != nil {
		original = cause.Error()
	}
	return &AuthServerUnreachableError{
		apiError: apiError{
			status:  http.StatusServiceUnavailable,
			id:      ErrIDServerUnreachable,
			message: fmt.Sprintf("authentication server unreachable at %s:%d", host, port),
			details: map[string]any{
				"auth_server_host": host,
				"auth_server_port": port,
				"original_error":   original,
			},
		},
		Host:  host,
		Port:  port,
		cause: cause,
	}
}

func (e *AuthServerUnreachableError) Unwrap() error { return e.cause }

// UnauthorizedTenantError reports a tenant that is not visible to the
// authenticated token.
type UnauthorizedTenantError struct {
	apiError
	Token      string
	TenantUUID string
}

// NewUnauthorizedTenantError builds the 401 unauthorized-tenant failure.
func NewUnauthorizedTenantError(token, tenantUUID string) *UnauthorizedTenantError {
	return &UnauthorizedTenantError{
		apiError: apiError{
			status:  http.StatusUnauthorized,
			id:      ErrIDUnauthorizedTenant,
			message: fmt.Sprintf("unauthorized tenant %q", tenantUUID),
			details: map[string]any{
				"invalid_token": token,
				"tenant_uuid":   tenantUUID,
			},
		},
		Token:      token,
		TenantUUID: tenantUUID,
	}
}

// InvalidTenantError reports a tenant the auth service refused to resolve.
type InvalidTenantError struct {
	apiError
	TenantUUID string
}

// NewInvalidTenantError builds the 401 invalid-tenant failure.
func NewInvalidTenantError(tenantUUID string) *InvalidTenantError {
	return &InvalidTenantError{
		apiError: apiError{
			status:  http.StatusUnauthorized,
			id:      ErrIDInvalidTenant,
			message: fmt.Sprintf("invalid tenant %q", tenantUUID),
			details: map[string]any{"tenant_uuid": tenantUUID},
		},
		TenantUUID: tenantUUID,
	}
}

// UnauthorizedError reports a tenant-scoping mismatch against a handler's
// declared tenant requirement.
type UnauthorizedError struct {
	apiError
	Token string
}

// NewUnauthorizedError builds the plain 401 unauthorized failure.
func NewUnauthorizedError(token string) *UnauthorizedError {
	return &UnauthorizedError{
		apiError: apiError{
			status:  http.StatusUnauthorized,
			id:      ErrIDUnauthorized,
			message: "unauthorized",
			details: map[string]any{"invalid_token": token},
		},
		Token: token,
	}
}
