// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package verify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Verifier drives the verification flow for incoming requests: extract
// the token id, validate it against the required access remotely, resolve
// tenant scoping, and either pass or fail with a categorized error.
//
// The flow is strictly sequential: tenant validation never runs before
// token validation succeeds, since it needs the resolved tenant claim.
// Every failure is terminal for the request; there is no retry here.
type Verifier struct {
	client AuthClient
	logger *slog.Logger
}

// NewVerifier creates a Verifier. A nil logger falls back to the process
// default.
func NewVerifier(client AuthClient, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{client: client, logger: logger}
}

// Verify runs the full verification flow for one request against the
// handler's declared spec. A NoAuth spec short-circuits without touching
// the auth client. Returns nil when the request is authorized, an
// APIError for categorized failures, and a plain error for contract or
// infrastructure problems the host should surface as a 500.
func (v *Verifier) Verify(ctx context.Context, req RequestContext, spec HandlerSpec) error {
	if spec.NoAuth {
		return nil
	}

	start := time.Now()
	logger := v.logger.With("verification_id", ulid.Make().String())

	err := v.run(ctx, logger, req, spec)
	recordVerification(time.Since(start), resultLabel(err))
	return err
}

func (v *Verifier) run(ctx context.Context, logger *slog.Logger, req RequestContext, spec HandlerSpec) error {
	extract := spec.TokenExtractor
	if extract == nil {
		extract = TokenIDFromHeader
	}
	tokenID, err := extract(req)
	if err != nil {
		logger.WarnContext(ctx, "token extraction failed", "error", err)
		return err
	}

	requiredACL := ExpandACLTemplate(spec.ACLTemplate, req.Kwargs())

	if err := v.validateToken(ctx, tokenID, requiredACL, spec.RequiredTenant); err != nil {
		logger.WarnContext(ctx, "token validation failed",
			"required_acl", requiredACL,
			"error", err)
		return err
	}

	if spec.RequiredTenant != "" {
		token := NewToken(v.client, tokenID)
		tenantUUID, err := token.TenantUUID(ctx)
		if err != nil {
			logger.WarnContext(ctx, "tenant resolution failed", "error", err)
			return err
		}
		if err := validateTenant(spec.RequiredTenant, tenantUUID, tokenID); err != nil {
			logger.WarnContext(ctx, "tenant validation failed",
				"required_tenant", spec.RequiredTenant,
				"token_tenant", tenantUUID,
				"error", err)
			return err
		}
	}

	logger.DebugContext(ctx, "request authorized", "required_acl", requiredACL)
	return nil
}

// validateToken asks the remote auth service whether the token satisfies
// the required access, scoped to a tenant when one is required.
func (v *Verifier) validateToken(ctx context.Context, tokenID, requiredACL, tenantUUID string) error {
	valid, err := v.client.CheckToken(ctx, tokenID, requiredACL, tenantUUID)

	var transport *TransportError
	switch {
	case err == nil && valid:
		return nil
	case err == nil:
		// The client reported an invalid token without classifying why.
		// Its error taxonomy and this layer have drifted; fail loudly as
		// a contract breach instead of masking it as unauthorized.
		return oops.In("verify").
			Code("AUTH_CLIENT_CONTRACT").
			With("token", tokenID).
			With("required_acl", requiredACL).
			Errorf("auth client reported invalid token without a classified error")
	case errors.Is(err, ErrTokenInvalid):
		return NewInvalidTokenError(tokenID)
	case errors.Is(err, ErrMissingPermission):
		return NewMissingPermissionsError(tokenID, requiredACL, tenantUUID)
	case errors.As(err, &transport):
		return NewAuthServerUnreachableError(v.client.Host(), v.client.Port(), transport.Err)
	default:
		return oops.In("verify").
			Code("AUTH_CLIENT_ERROR").
			With("token", tokenID).
			Wrap(err)
	}
}

// validateTenant compares the handler's declared tenant requirement with
// the token's tenant claim. Equality, including both being absent, passes.
func validateTenant(requiredTenant, tenantUUID, tokenID string) error {
	if requiredTenant == tenantUUID {
		return nil
	}
	return NewUnauthorizedError(tokenID)
}

// resultLabel maps a verification outcome to its metrics label.
func resultLabel(err error) string {
	if err == nil {
		return "authorized"
	}
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorID()
	}
	return "internal-error"
}
