// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package acl

import "strings"

// AccessCheck holds the compiled rule set of one principal and answers
// access questions against it. Negative rules always win: a single negative
// match denies, no matter how many positive rules would grant.
//
// AccessCheck is immutable after construction and safe to share across
// concurrent requests. It is built per request or per session from the ACL
// list returned by the auth backend and discarded with it.
type AccessCheck struct {
	principalID string
	sessionID   string
	positive    []*Rule
	negative    []*Rule
}

// NewAccessCheck compiles the raw ACL list for a principal. Patterns
// prefixed with `!` become negative rules, compiled with the prefix
// stripped. Input order is preserved within each list; duplicates are
// harmless.
func NewAccessCheck(principalID, sessionID string, acls []string) (*AccessCheck, error) {
	check := &AccessCheck{
		principalID: principalID,
		sessionID:   sessionID,
	}

	for _, pattern := range acls {
		if negated, ok := strings.CutPrefix(pattern, NegationPrefix); ok {
			rule, err := Compile(principalID, sessionID, negated)
			if err != nil {
				return nil, err
			}
			check.negative = append(check.negative, rule)
			continue
		}
		rule, err := Compile(principalID, sessionID, pattern)
		if err != nil {
			return nil, err
		}
		check.positive = append(check.positive, rule)
	}

	return check, nil
}

// MatchesRequiredAccess reports whether the principal satisfies the given
// required-access string. A required access that itself starts with `!` is
// never satisfiable as a positive grant. All negative rules are consulted
// before any positive rule.
func (c *AccessCheck) MatchesRequiredAccess(required string) bool {
	if strings.HasPrefix(required, NegationPrefix) {
		return false
	}
	for _, rule := range c.negative {
		if rule.Matches(required) {
			return false
		}
	}
	for _, rule := range c.positive {
		if rule.Matches(required) {
			return true
		}
	}
	return false
}

// MatchesOptionalAccess is MatchesRequiredAccess with "no requirement"
// semantics: a nil requirement implies no ACL restriction and always passes.
func (c *AccessCheck) MatchesOptionalAccess(required *string) bool {
	if required == nil {
		return true
	}
	return c.MatchesRequiredAccess(*required)
}

// MayAddAccess reports whether the principal may grant the given access.
// Proposing a restriction (a `!` pattern) is always permitted; granting a
// positive access requires effectively holding it already.
func (c *AccessCheck) MayAddAccess(access string) bool {
	if strings.HasPrefix(access, NegationPrefix) {
		return true
	}
	return c.MatchesRequiredAccess(access)
}

// MayRemoveAccess reports whether the principal may revoke the given
// access. The access is normalized by stripping a leading `!` first: you
// may remove an entry, positive or negative, if you hold the underlying
// access yourself.
func (c *AccessCheck) MayRemoveAccess(access string) bool {
	return c.MatchesRequiredAccess(strings.TrimPrefix(access, NegationPrefix))
}
