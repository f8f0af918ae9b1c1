// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package verify

import "context"

// Tenant identifies an organizational scoping unit.
type Tenant struct {
	UUID string
	Name string
}

// AutodetectTenant resolves the effective tenant of a request. Precedence:
// the `tenant` query parameter, then the Wazo-Tenant header, then the
// token's own tenant claim. A tenant named by query or header must be
// the token's own tenant or appear in its visible-tenant list; anything
// else is an unauthorized-tenant failure.
func AutodetectTenant(ctx context.Context, req RequestContext, token *Token) (Tenant, error) {
	specified := req.QueryParam(QueryTenant)
	if specified == "" {
		specified = req.Header(HeaderTenant)
	}

	own, err := token.TenantUUID(ctx)
	if err != nil {
		return Tenant{}, err
	}

	if specified == "" || specified == own {
		return Tenant{UUID: own}, nil
	}

	visible, err := token.VisibleTenants(ctx, own)
	if err != nil {
		return Tenant{}, err
	}
	for _, tenant := range visible {
		if tenant.UUID == specified {
			return tenant, nil
		}
	}

	return Tenant{}, NewUnauthorizedTenantError(token.ID(), specified)
}
