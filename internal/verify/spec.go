// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package verify

import (
	"fmt"
	"regexp"
	"strings"
)

// Conventional request header and query parameter names.
const (
	HeaderAuthToken = "X-Auth-Token"
	HeaderTenant    = "Wazo-Tenant"
	QueryTenant     = "tenant"
)

// RequestContext is what the host transport must expose for a request to
// be verified. The reference deployment maps it onto HTTP headers and the
// query string, but nothing here depends on HTTP.
type RequestContext interface {
	// Header returns the named request header, or "" when absent.
	Header(name string) string
	// QueryParam returns the named query parameter, or "" when absent.
	QueryParam(name string) string
	// Kwargs returns the per-call keyword arguments used for ACL template
	// substitution.
	Kwargs() map[string]any
}

// TokenExtractor retrieves the token id from an incoming request.
type TokenExtractor func(RequestContext) (string, error)

// TokenIDFromHeader is the default TokenExtractor: it reads the
// conventional X-Auth-Token header and fails with an invalid-token error
// when it is absent.
func TokenIDFromHeader(req RequestContext) (string, error) {
	id := req.Header(HeaderAuthToken)
	if id == "" {
		return "", NewInvalidTokenError("")
	}
	return id, nil
}

// HandlerSpec pairs a handler with its declared authorization metadata.
// Specs are built explicitly at registration time; there is no runtime
// attribute probing.
type HandlerSpec struct {
	// ACLTemplate is the required-access pattern, with optional {name}
	// placeholders filled from the call kwargs. Empty means the handler
	// declares no ACL requirement.
	ACLTemplate string

	// RequiredTenant, when non-empty, must equal the token's tenant claim.
	RequiredTenant string

	// NoAuth exempts the handler from verification entirely.
	NoAuth bool

	// TokenExtractor overrides how the token id is read from the request.
	// nil means TokenIDFromHeader.
	TokenExtractor TokenExtractor
}

// RequireACL declares a handler that needs the given access pattern.
func RequireACL(template string) HandlerSpec {
	return HandlerSpec{ACLTemplate: template}
}

// NoAuthSpec declares a handler exempt from all verification.
func NoAuthSpec() HandlerSpec {
	return HandlerSpec{NoAuth: true}
}

// WithTenant returns a copy of the spec that also requires the given
// tenant.
func (s HandlerSpec) WithTenant(tenantUUID string) HandlerSpec {
	s.RequiredTenant = tenantUUID
	return s
}

// WithTokenExtractor returns a copy of the spec using a custom token
// extractor.
func (s HandlerSpec) WithTokenExtractor(extract TokenExtractor) HandlerSpec {
	s.TokenExtractor = extract
	return s
}

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// ExpandACLTemplate fills {name} placeholders from the call kwargs. Each
// value is stringified with dots replaced by underscores, so an identifier
// can never inject extra pattern segments. Placeholders without a matching
// kwarg are left untouched.
func ExpandACLTemplate(template string, kwargs map[string]any) string {
	if !strings.Contains(template, "{") {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := kwargs[name]
		if !ok {
			return match
		}
		return strings.ReplaceAll(fmt.Sprint(value), ".", "_")
	})
}
