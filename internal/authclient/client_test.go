// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package authclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazo-platform/authkit/internal/authclient"
	"github.com/wazo-platform/authkit/internal/verify"
)

// newTestClient points a Client at an httptest server.
func newTestClient(t *testing.T, handler http.Handler) (*authclient.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	client := authclient.New(authclient.Config{
		Host:       parsed.Hostname(),
		Port:       port,
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	}, nil)
	return client, server
}

func TestCheckToken_StatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantValid bool
		wantErr   error
	}{
		{"no content is valid", http.StatusNoContent, true, nil},
		{"not found is invalid token", http.StatusNotFound, false, verify.ErrTokenInvalid},
		{"unauthorized is invalid token", http.StatusUnauthorized, false, verify.ErrTokenInvalid},
		{"forbidden is missing permission", http.StatusForbidden, false, verify.ErrMissingPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				assert.Equal(t, "/token/tok", r.URL.Path)
				w.WriteHeader(tt.status)
			}))

			valid, err := client.CheckToken(context.Background(), "tok", "confd.#", "")

			assert.Equal(t, tt.wantValid, valid)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckToken_SendsScopeAndTenant(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusNoContent)
	}))

	_, err := client.CheckToken(context.Background(), "tok", "confd.users.read", "tenant-1")

	require.NoError(t, err)
	assert.Equal(t, "confd.users.read", gotQuery.Get("scope"))
	assert.Equal(t, "tenant-1", gotQuery.Get("tenant"))
}

func TestGetToken_DecodesMetadata(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token/tok", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"token": "tok",
				"metadata": {
					"uuid": "user-1",
					"tenant_uuid": "tenant-1",
					"purpose": "internal"
				}
			}
		}`))
	}))

	data, err := client.GetToken(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "tok", data.Token)
	assert.Equal(t, "user-1", data.Metadata.UUID)
	assert.Equal(t, "tenant-1", data.Metadata.TenantUUID)
	assert.Equal(t, "internal", data.Metadata.Claims["purpose"])
	assert.NotContains(t, data.Metadata.Claims, "uuid")
}

func TestGetToken_UnknownToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetToken(context.Background(), "ghost")

	assert.ErrorIs(t, err, verify.ErrTokenInvalid)
}

func TestListTenants(t *testing.T) {
	var gotTenantHeader string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenants", r.URL.Path)
		gotTenantHeader = r.Header.Get(verify.HeaderTenant)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [{"uuid": "t1", "name": "corp"}, {"uuid": "t2", "name": "sub"}]}`))
	}))

	tenants, err := client.ListTenants(context.Background(), "t1")

	require.NoError(t, err)
	assert.Equal(t, "t1", gotTenantHeader)
	assert.Equal(t, []verify.TenantData{{UUID: "t1", Name: "corp"}, {UUID: "t2", Name: "sub"}}, tenants)
}

func TestListTenants_RemoteErrorCarriesStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.ListTenants(context.Background(), "t1")

	var remote *verify.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.Status)
}

func TestNewToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/token", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"token": "fresh", "metadata": {"uuid": "svc"}}}`))
	}))

	data, err := client.NewToken(context.Background(), time.Hour)

	require.NoError(t, err)
	assert.Equal(t, "fresh", data.Token)
	assert.Equal(t, "svc", data.Metadata.UUID)
}

func TestTransportFailureIsClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	// Close the server so every attempt fails at the transport level.
	server.Close()

	client := authclient.New(authclient.Config{
		Host:       parsed.Hostname(),
		Port:       port,
		Timeout:    time.Second,
		MaxRetries: 1,
	}, nil)

	_, checkErr := client.CheckToken(context.Background(), "tok", "", "")

	var transport *verify.TransportError
	require.ErrorAs(t, checkErr, &transport)
}

func TestNoRetryOnHTTPResponse(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))

	valid, err := client.CheckToken(context.Background(), "tok", "", "")

	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, 1, calls, "HTTP responses are never retried")
}
