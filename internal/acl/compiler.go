// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

// Package acl implements the access-control pattern language shared by
// the platform microservices.
//
// An ACL pattern is a sequence of dot-separated segments. A segment is a
// literal token, `*` (exactly one segment), or `#` (any span of segments,
// including none). A leading `!` marks a pattern as a negative rule.
// The segments `me`, `my_session`, and `edit` are reserved words resolved
// at compile time from the authenticated identity context.
package acl

import (
	"regexp"
	"strings"

	"github.com/samber/oops"
)

// Reserved words substituted during compilation.
const (
	wordMe      = "me"
	wordSession = "my_session"
	wordEdit    = "edit"
)

// NegationPrefix marks a pattern as a negative rule.
const NegationPrefix = "!"

// Rule is a single ACL pattern compiled into an anchored matcher.
// Rules are immutable and safe for concurrent use.
type Rule struct {
	pattern string
	re      *regexp.Regexp
}

// Compile translates one un-negated ACL pattern into a Rule. The principal
// and session identifiers are substituted into the `me` and `my_session`
// reserved words; they come from the authenticated identity context, never
// from user input.
//
// Identifier values are substituted verbatim, matching the historical
// behavior of the services that share this grammar. UUIDs contain no
// pattern metacharacters, so this is safe for well-formed identities.
func Compile(principalID, sessionID, pattern string) (*Rule, error) {
	segments := strings.Split(pattern, ".")
	translated := make([]string, len(segments))
	for i, segment := range segments {
		translated[i] = translateSegment(segment, principalID, sessionID)
	}

	re, err := regexp.Compile("^" + strings.Join(translated, `\.`) + "$")
	if err != nil {
		return nil, oops.In("acl").
			Code("INVALID_ACL_PATTERN").
			With("pattern", pattern).
			Wrap(err)
	}

	return &Rule{pattern: pattern, re: re}, nil
}

// translateSegment converts one dot-separated segment into regexp source.
// Reserved-word substitution applies only when the segment equals the
// reserved word exactly; otherwise the segment is translated character by
// character so wildcards embedded in literals keep their meaning.
func translateSegment(segment, principalID, sessionID string) string {
	switch segment {
	case wordMe:
		return "(" + wordMe + "|" + principalID + ")"
	case wordSession:
		return "(" + wordSession + "|" + sessionID + ")"
	case wordEdit:
		// Compatibility alias: `edit` grants also satisfy `update` checks.
		return "(edit|update)"
	}

	var b strings.Builder
	for _, r := range segment {
		switch r {
		case '*':
			// Exactly one segment: no dot, and a literal `#` never hides
			// inside a starred segment.
			b.WriteString("[^.#]*?")
		case '#':
			b.WriteString(".*?")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// Matches reports whether the access string satisfies this rule.
func (r *Rule) Matches(access string) bool {
	return r.re.MatchString(access)
}

// Pattern returns the raw pattern this rule was compiled from.
func (r *Rule) Pattern() string {
	return r.pattern
}

func (r *Rule) String() string {
	return r.pattern
}
