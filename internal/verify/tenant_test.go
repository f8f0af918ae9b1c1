// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package verify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazo-platform/authkit/internal/verify"
	"github.com/wazo-platform/authkit/internal/verify/verifytest"
)

func tenantFixtures(t *testing.T) (own, sub string, client *verifytest.Client) {
	t.Helper()
	own = verifytest.NewTenantUUID()
	sub = verifytest.NewTenantUUID()
	client = &verifytest.Client{
		Tokens: map[string]*verify.TokenData{
			"tok": {Token: "tok", Metadata: verify.TokenMetadata{TenantUUID: own}},
		},
		Tenants: map[string][]verify.TenantData{
			own: {{UUID: own, Name: "corp"}, {UUID: sub, Name: "subsidiary"}},
		},
	}
	return own, sub, client
}

func TestAutodetectTenant_DefaultsToTokenClaim(t *testing.T) {
	own, _, client := tenantFixtures(t)
	token := verify.NewToken(client, "tok")

	tenant, err := verify.AutodetectTenant(context.Background(), &verifytest.Request{}, token)

	require.NoError(t, err)
	assert.Equal(t, verify.Tenant{UUID: own}, tenant)
	assert.Zero(t, client.ListCalls, "own tenant needs no visibility check")
}

func TestAutodetectTenant_QueryParameterWins(t *testing.T) {
	own, sub, client := tenantFixtures(t)
	token := verify.NewToken(client, "tok")
	req := &verifytest.Request{
		Query:   map[string]string{verify.QueryTenant: sub},
		Headers: map[string]string{verify.HeaderTenant: own},
	}

	tenant, err := verify.AutodetectTenant(context.Background(), req, token)

	require.NoError(t, err)
	assert.Equal(t, verify.Tenant{UUID: sub, Name: "subsidiary"}, tenant)
}

func TestAutodetectTenant_HeaderBeforeTokenClaim(t *testing.T) {
	_, sub, client := tenantFixtures(t)
	token := verify.NewToken(client, "tok")
	req := &verifytest.Request{
		Headers: map[string]string{verify.HeaderTenant: sub},
	}

	tenant, err := verify.AutodetectTenant(context.Background(), req, token)

	require.NoError(t, err)
	assert.Equal(t, verify.Tenant{UUID: sub, Name: "subsidiary"}, tenant)
}

func TestAutodetectTenant_OwnTenantSkipsVisibilityCheck(t *testing.T) {
	own, _, client := tenantFixtures(t)
	token := verify.NewToken(client, "tok")
	req := &verifytest.Request{
		Query: map[string]string{verify.QueryTenant: own},
	}

	tenant, err := verify.AutodetectTenant(context.Background(), req, token)

	require.NoError(t, err)
	assert.Equal(t, verify.Tenant{UUID: own}, tenant)
	assert.Zero(t, client.ListCalls)
}

func TestAutodetectTenant_InvisibleTenantDenied(t *testing.T) {
	_, _, client := tenantFixtures(t)
	token := verify.NewToken(client, "tok")
	foreign := verifytest.NewTenantUUID()
	req := &verifytest.Request{
		Query: map[string]string{verify.QueryTenant: foreign},
	}

	_, err := verify.AutodetectTenant(context.Background(), req, token)

	var unauthorized *verify.UnauthorizedTenantError
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, foreign, unauthorized.TenantUUID)
	assert.Equal(t, "tok", unauthorized.Token)
}
