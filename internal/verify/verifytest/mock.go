// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

// Package verifytest provides auth client test doubles for verification
// tests.
package verifytest

import (
	"context"

	"github.com/google/uuid"

	"github.com/wazo-platform/authkit/internal/verify"
)

// Compile-time interface checks.
var (
	_ verify.AuthClient     = AllowAll{}
	_ verify.AuthClient     = (*Client)(nil)
	_ verify.RequestContext = (*Request)(nil)
)

// AllowAll is an AuthClient that accepts every token.
type AllowAll struct{}

// CheckToken always reports the token as valid.
func (AllowAll) CheckToken(_ context.Context, _, _, _ string) (bool, error) {
	return true, nil
}

// GetToken returns a minimal valid token.
func (AllowAll) GetToken(_ context.Context, tokenID string) (*verify.TokenData, error) {
	return &verify.TokenData{Token: tokenID}, nil
}

// ListTenants returns an empty tenant list.
func (AllowAll) ListTenants(_ context.Context, _ string) ([]verify.TenantData, error) {
	return nil, nil
}

// Host returns a placeholder host.
func (AllowAll) Host() string { return "localhost" }

// Port returns a placeholder port.
func (AllowAll) Port() int { return 9497 }

// Client is a configurable AuthClient double. Zero value: every check
// fails with verify.ErrTokenInvalid and no tokens resolve.
type Client struct {
	AuthHost string
	AuthPort int

	// CheckValid and CheckErr drive CheckToken.
	CheckValid bool
	CheckErr   error

	// Tokens maps token ids to their metadata for GetToken.
	Tokens map[string]*verify.TokenData
	// GetErr, when set, overrides Tokens.
	GetErr error

	// Tenants maps a root tenant uuid to its visible tenants.
	Tenants map[string][]verify.TenantData
	// ListErr, when set, overrides Tenants.
	ListErr error

	// Call counters.
	CheckCalls int
	GetCalls   int
	ListCalls  int
}

// CheckToken implements verify.AuthClient.
func (c *Client) CheckToken(_ context.Context, _, _, _ string) (bool, error) {
	c.CheckCalls++
	if c.CheckErr != nil {
		return false, c.CheckErr
	}
	if !c.CheckValid {
		return false, verify.ErrTokenInvalid
	}
	return true, nil
}

// GetToken implements verify.AuthClient.
func (c *Client) GetToken(_ context.Context, tokenID string) (*verify.TokenData, error) {
	c.GetCalls++
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	data, ok := c.Tokens[tokenID]
	if !ok {
		return nil, verify.ErrTokenInvalid
	}
	return data, nil
}

// ListTenants implements verify.AuthClient.
func (c *Client) ListTenants(_ context.Context, tenantUUID string) ([]verify.TenantData, error) {
	c.ListCalls++
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	return c.Tenants[tenantUUID], nil
}

// Host implements verify.AuthClient.
func (c *Client) Host() string {
	if c.AuthHost == "" {
		return "localhost"
	}
	return c.AuthHost
}

// Port implements verify.AuthClient.
func (c *Client) Port() int {
	if c.AuthPort == 0 {
		return 9497
	}
	return c.AuthPort
}

// NewTenantUUID returns a random tenant uuid for fixtures.
func NewTenantUUID() string {
	return uuid.NewString()
}

// Request is a RequestContext double backed by maps.
type Request struct {
	Headers map[string]string
	Query   map[string]string
	KW      map[string]any
}

// Header implements verify.RequestContext.
func (r *Request) Header(name string) string { return r.Headers[name] }

// QueryParam implements verify.RequestContext.
func (r *Request) QueryParam(name string) string { return r.Query[name] }

// Kwargs implements verify.RequestContext.
func (r *Request) Kwargs() map[string]any { return r.KW }
