// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package verify

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/oops"
)

// Token is a remote-backed value object wrapping a token id. Metadata and
// visible-tenant lists are fetched lazily and cached for the life of the
// object: one token.get call total, one tenants.list call per root tenant.
//
// Tokens are request-scoped. The memoization is plain, not synchronized;
// do not share an instance across concurrent requests.
type Token struct {
	client AuthClient
	id     string

	data    *TokenData
	visible map[string][]Tenant
}

// NewToken wraps a token id without touching the network.
func NewToken(client AuthClient, id string) *Token {
	return &Token{
		client:  client,
		id:      id,
		visible: make(map[string][]Tenant),
	}
}

// TokenFromHeader builds a Token from the conventional request header.
// Fails with an invalid-token error when the header is absent.
func TokenFromHeader(req RequestContext, client AuthClient) (*Token, error) {
	id := req.Header(HeaderAuthToken)
	if id == "" {
		return nil, NewInvalidTokenError("")
	}
	return NewToken(client, id), nil
}

// ID returns the wrapped token id.
func (t *Token) ID() string { return t.id }

// fetch memoizes the remote token metadata.
func (t *Token) fetch(ctx context.Context) (*TokenData, error) {
	if t.data != nil {
		return t.data, nil
	}

	data, err := t.client.GetToken(ctx, t.id)
	if err != nil {
		return nil, t.classify(err)
	}

	t.data = data
	return data, nil
}

// TenantUUID returns the token's tenant claim.
func (t *Token) TenantUUID(ctx context.Context) (string, error) {
	data, err := t.fetch(ctx)
	if err != nil {
		return "", err
	}
	return data.Metadata.TenantUUID, nil
}

// UserUUID returns the token's user claim.
func (t *Token) UserUUID(ctx context.Context) (string, error) {
	data, err := t.fetch(ctx)
	if err != nil {
		return "", err
	}
	return data.Metadata.UUID, nil
}

// VisibleTenants lists the tenants visible to this token under the given
// root tenant, defaulting to the token's own tenant. Self-visibility is
// always assumed: a 401 on the token's own tenant falls back to a
// single-element list rather than failing. A 401 on any other tenant is an
// invalid-tenant failure.
func (t *Token) VisibleTenants(ctx context.Context, tenantUUID string) ([]Tenant, error) {
	own, err := t.TenantUUID(ctx)
	if err != nil {
		return nil, err
	}
	if tenantUUID == "" {
		tenantUUID = own
	}

	if cached, ok := t.visible[tenantUUID]; ok {
		return cached, nil
	}

	items, err := t.client.ListTenants(ctx, tenantUUID)
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) && remote.Status == http.StatusUnauthorized {
			if tenantUUID == own {
				tenants := []Tenant{{UUID: own}}
				t.visible[tenantUUID] = tenants
				return tenants, nil
			}
			return nil, NewInvalidTenantError(tenantUUID)
		}
		return nil, t.classify(err)
	}

	tenants := make([]Tenant, 0, len(items))
	for _, item := range items {
		tenants = append(tenants, Tenant{UUID: item.UUID, Name: item.Name})
	}
	t.visible[tenantUUID] = tenants
	return tenants, nil
}

// classify maps client errors onto the categorized taxonomy.
func (t *Token) classify(err error) error {
	var transport *TransportError
	switch {
	case errors.Is(err, ErrTokenInvalid):
		return NewInvalidTokenError(t.id)
	case errors.As(err, &transport):
		return NewAuthServerUnreachableError(t.client.Host(), t.client.Port(), transport.Err)
	default:
		return oops.In("verify").
			Code("AUTH_CLIENT_ERROR").
			With("token", t.id).
			Wrap(err)
	}
}
