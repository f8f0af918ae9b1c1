// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

// Package authclient implements verify.AuthClient over the authentication
// service's REST API.
//
// This is the transport layer the rest of the library refuses to be:
// timeouts and retries live here. Transport-level failures on idempotent
// calls are retried with capped exponential backoff; HTTP-level auth
// failures are never retried and are classified into the verify package's
// error contract.
package authclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/wazo-platform/authkit/internal/verify"
)

// Default transport tuning.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxRetries  = 2
	defaultBackoffBase = 250 * time.Millisecond
	defaultBackoffCap  = 2 * time.Second
)

// Config describes the remote authentication service endpoint.
type Config struct {
	Host              string
	Port              int
	HTTPS             bool
	Prefix            string // URL prefix, e.g. "/api/auth/0.1"
	VerifyCertificate bool
	Timeout           time.Duration
	MaxRetries        uint64
}

// Client talks to the authentication service. Safe for concurrent use.
type Client struct {
	cfg    Config
	base   string
	http   *http.Client
	logger *slog.Logger
}

var _ verify.AuthClient = (*Client)(nil)

// New creates a Client for the given endpoint. A nil logger falls back to
// the process default.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	scheme := "http"
	transport := http.DefaultTransport
	if cfg.HTTPS {
		scheme = "https"
		if !cfg.VerifyCertificate {
			transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // Explicit opt-out for self-signed deployments.
			}
		}
	}

	return &Client{
		cfg:  cfg,
		base: fmt.Sprintf("%s://%s:%d%s", scheme, cfg.Host, cfg.Port, cfg.Prefix),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// Host implements verify.AuthClient.
func (c *Client) Host() string { return c.cfg.Host }

// Port implements verify.AuthClient.
func (c *Client) Port() int { return c.cfg.Port }

// CheckToken implements verify.AuthClient with a HEAD on the token
// resource.
func (c *Client) CheckToken(ctx context.Context, tokenID, requiredACL, tenantUUID string) (bool, error) {
	query := url.Values{}
	if requiredACL != "" {
		query.Set("scope", requiredACL)
	}
	if tenantUUID != "" {
		query.Set("tenant", tenantUUID)
	}

	resp, err := c.doIdempotent(ctx, http.MethodHead, "/token/"+url.PathEscape(tokenID), query, nil)
	if err != nil {
		return false, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return true, nil
	case http.StatusUnauthorized, http.StatusNotFound:
		return false, verify.ErrTokenInvalid
	case http.StatusForbidden:
		return false, verify.ErrMissingPermission
	default:
		return false, &verify.RemoteError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected response to token check"),
		}
	}
}

// tokenEnvelope is the wire format of the token resource.
type tokenEnvelope struct {
	Data struct {
		Token    string         `json:"token"`
		Metadata map[string]any `json:"metadata"`
	} `json:"data"`
}

// GetToken implements verify.AuthClient.
func (c *Client) GetToken(ctx context.Context, tokenID string) (*verify.TokenData, error) {
	resp, err := c.doIdempotent(ctx, http.MethodGet, "/token/"+url.PathEscape(tokenID), nil, nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return decodeToken(resp.Body)
	case http.StatusUnauthorized, http.StatusNotFound:
		return nil, verify.ErrTokenInvalid
	default:
		return nil, &verify.RemoteError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected response to token fetch"),
		}
	}
}

// tenantsEnvelope is the wire format of the tenant listing.
type tenantsEnvelope struct {
	Items []struct {
		UUID string `json:"uuid"`
		Name string `json:"name"`
	} `json:"items"`
}

// ListTenants implements verify.AuthClient. The root tenant is conveyed
// through the conventional tenant header.
func (c *Client) ListTenants(ctx context.Context, tenantUUID string) ([]verify.TenantData, error) {
	headers := http.Header{}
	if tenantUUID != "" {
		headers.Set(verify.HeaderTenant, tenantUUID)
	}

	resp, err := c.doIdempotent(ctx, http.MethodGet, "/tenants", nil, headers)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, &verify.RemoteError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected response to tenant listing"),
		}
	}

	var envelope tenantsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, oops.In("authclient").
			Code("AUTH_RESPONSE_DECODE").
			With("endpoint", "/tenants").
			Wrap(err)
	}

	tenants := make([]verify.TenantData, 0, len(envelope.Items))
	for _, item := range envelope.Items {
		tenants = append(tenants, verify.TenantData{UUID: item.UUID, Name: item.Name})
	}
	return tenants, nil
}

// NewToken creates a fresh service token with the given expiration. Used
// by the token renewal helper. Not retried: token creation is not
// idempotent.
func (c *Client) NewToken(ctx context.Context, expiration time.Duration) (*verify.TokenData, error) {
	payload, err := json.Marshal(map[string]any{
		"expiration": int(expiration.Seconds()),
	})
	if err != nil {
		return nil, oops.In("authclient").Code("AUTH_REQUEST_ENCODE").Wrap(err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/token", nil, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &verify.TransportError{Err: err}
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &verify.RemoteError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected response to token creation"),
		}
	}
	return decodeToken(resp.Body)
}

// doIdempotent sends a request, retrying transport failures with capped
// exponential backoff. HTTP responses, whatever their status, are never
// retried here.
func (c *Client) doIdempotent(ctx context.Context, method, path string, query url.Values, headers http.Header) (*http.Response, error) {
	backoff := retry.WithMaxRetries(c.maxRetries(),
		retry.WithCappedDuration(defaultBackoffCap, retry.NewExponential(defaultBackoffBase)))

	var resp *http.Response
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := c.newRequest(ctx, method, path, query, nil)
		if err != nil {
			return err
		}
		for name, values := range headers {
			req.Header[name] = values
		}

		resp, err = c.http.Do(req)
		if err != nil {
			c.logger.DebugContext(ctx, "auth service request failed, may retry",
				"method", method,
				"path", path,
				"error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, &verify.TransportError{Err: err}
	}
	return resp, nil
}

func (c *Client) maxRetries() uint64 {
	if c.cfg.MaxRetries == 0 {
		return DefaultMaxRetries
	}
	return c.cfg.MaxRetries
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, oops.In("authclient").
			Code("AUTH_REQUEST_BUILD").
			With("method", method).
			With("path", path).
			Wrap(err)
	}
	return req, nil
}

// decodeToken maps the wire envelope onto verify.TokenData, splitting the
// identity claims out of the raw metadata.
func decodeToken(body io.Reader) (*verify.TokenData, error) {
	var envelope tokenEnvelope
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, oops.In("authclient").
			Code("AUTH_RESPONSE_DECODE").
			With("endpoint", "/token").
			Wrap(err)
	}

	metadata := verify.TokenMetadata{Claims: make(map[string]any)}
	for key, value := range envelope.Data.Metadata {
		switch key {
		case "uuid":
			metadata.UUID, _ = value.(string)
		case "tenant_uuid":
			metadata.TenantUUID, _ = value.(string)
		default:
			metadata.Claims[key] = value
		}
	}

	return &verify.TokenData{
		Token:    envelope.Data.Token,
		Metadata: metadata,
	}, nil
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
