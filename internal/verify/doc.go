// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

// Package verify authorizes incoming API calls for the platform services.
//
// # Flow
//
// A request carries a token id (X-Auth-Token by convention) and is matched
// against the HandlerSpec declared for its handler: a required-access
// pattern template, an optional tenant requirement, or a no-auth marker.
// Verifier.Verify extracts the token, validates it against the remote
// authentication service, resolves tenant scoping, and returns nil or a
// categorized APIError carrying a stable (status, error id, details)
// triple.
//
// # Value objects
//
// Token and Tenant wrap remote-backed identity state with request-scoped
// memoization. They are not safe for concurrent use; build one per
// request.
//
// # Boundaries
//
// The remote authentication service is reached only through the AuthClient
// interface. Transport concerns, including retries and timeouts, live in
// the implementing client, never here.
package verify
