// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package acl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazo-platform/authkit/internal/acl"
)

func TestCompile_LiteralSegments(t *testing.T) {
	rule, err := acl.Compile("123", "session-uuid", "foo.bar.toto")
	require.NoError(t, err)

	assert.True(t, rule.Matches("foo.bar.toto"))
	assert.False(t, rule.Matches("foo.bar"))
	assert.False(t, rule.Matches("foo.bar.toto.tata"))
	assert.False(t, rule.Matches("foo_bar_toto"))
}

func TestCompile_Wildcards(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		access  string
		want    bool
	}{
		{"star matches one segment", "foo.*.bar", "foo.anything.bar", true},
		{"star matches empty segment", "foo.*.bar", "foo..bar", true},
		{"star does not span dots", "foo.*.bar", "foo.a.b.bar", false},
		{"star does not match hash", "foo.*", "foo.#", false},
		{"hash matches trailing span", "foo.bar.#", "foo.bar.toto.tata", true},
		{"hash requires the preceding dot", "foo.bar.#", "foo.bar", false},
		{"hash alone matches anything", "#", "a.b.c.d", true},
		{"hash alone matches empty", "#", "", true},
		{"inner hash spans segments", "foo.#.bar", "foo.a.b.c.bar", true},
		{"inner hash cannot vanish the dots", "foo.#.bar", "foo.bar", false},
		{"empty pattern matches only empty", "", "", true},
		{"empty pattern rejects non-empty", "", "foo", false},
		{"regex metacharacters stay literal", "foo.b+r", "foo.bbbr", false},
		{"regex metacharacters match themselves", "foo.b+r", "foo.b+r", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := acl.Compile("123", "session-uuid", tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rule.Matches(tt.access))
		})
	}
}

func TestCompile_ReservedWords(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		access  string
		want    bool
	}{
		{"me matches literal", "foo.me.bar", "foo.me.bar", true},
		{"me matches principal id", "foo.me.bar", "foo.123.bar", true},
		{"me rejects other ids", "foo.me.bar", "foo.456.bar", false},
		{"my_session matches literal", "foo.my_session", "foo.my_session", true},
		{"my_session matches session id", "foo.my_session", "foo.session-uuid", true},
		{"my_session rejects other sessions", "foo.my_session", "foo.other-session", false},
		{"edit also matches update", "foo.edit", "foo.update", true},
		{"edit matches itself", "foo.edit", "foo.edit", true},
		{"reserved word only as whole segment", "foo.meow", "foo.123ow", false},
		{"reserved word only as whole segment literal", "foo.meow", "foo.meow", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := acl.Compile("123", "session-uuid", tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rule.Matches(tt.access))
		})
	}
}

func TestCompile_Deterministic(t *testing.T) {
	probes := []string{"", "foo", "foo.bar", "foo.123.bar", "foo.me.bar", "a.b.c"}

	first, err := acl.Compile("123", "session-uuid", "foo.#.bar")
	require.NoError(t, err)
	second, err := acl.Compile("123", "session-uuid", "foo.#.bar")
	require.NoError(t, err)

	for _, probe := range probes {
		assert.Equal(t, first.Matches(probe), second.Matches(probe), "probe %q", probe)
	}
}

func TestRule_Pattern(t *testing.T) {
	rule, err := acl.Compile("123", "session-uuid", "foo.#")
	require.NoError(t, err)

	assert.Equal(t, "foo.#", rule.Pattern())
	assert.Equal(t, "foo.#", rule.String())
}
