// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package verify_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wazo-platform/authkit/internal/verify"
)

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name       string
		err        verify.APIError
		wantStatus int
		wantID     string
		wantDetail map[string]any
	}{
		{
			name:       "invalid token",
			err:        verify.NewInvalidTokenError("tok"),
			wantStatus: 401,
			wantID:     "invalid-token",
			wantDetail: map[string]any{"invalid_token": "tok"},
		},
		{
			name:       "missing permission",
			err:        verify.NewMissingPermissionsError("tok", "confd.users.read", "tenant-1"),
			wantStatus: 401,
			wantID:     "missing-permission",
			wantDetail: map[string]any{
				"invalid_token":   "tok",
				"required_access": "confd.users.read",
				"tenant_uuid":     "tenant-1",
			},
		},
		{
			name:       "auth server unreachable",
			err:        verify.NewAuthServerUnreachableError("auth.example.com", 9497, cause),
			wantStatus: 503,
			wantID:     "authentication-server-unreachable",
			wantDetail: map[string]any{
				"auth_server_host": "auth.example.com",
				"auth_server_port": 9497,
				"original_error":   cause.Error(),
			},
		},
		{
			name:       "unauthorized tenant",
			err:        verify.NewUnauthorizedTenantError("tok", "tenant-2"),
			wantStatus: 401,
			wantID:     "unauthorized-tenant",
			wantDetail: map[string]any{"invalid_token": "tok", "tenant_uuid": "tenant-2"},
		},
		{
			name:       "invalid tenant",
			err:        verify.NewInvalidTenantError("tenant-3"),
			wantStatus: 401,
			wantID:     "invalid-tenant",
			wantDetail: map[string]any{"tenant_uuid": "tenant-3"},
		},
		{
			name:       "unauthorized",
			err:        verify.NewUnauthorizedError("tok"),
			wantStatus: 401,
			wantID:     "unauthorized",
			wantDetail: map[string]any{"invalid_token": "tok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode())
			assert.Equal(t, tt.wantID, tt.err.ErrorID())
			assert.Equal(t, tt.wantDetail, tt.err.Details())
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestAuthServerUnreachable_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := verify.NewAuthServerUnreachableError("localhost", 9497, cause)

	assert.ErrorIs(t, err, cause)
}
