// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestACLCheck_Granted(t *testing.T) {
	output, err := execute(t,
		"acl", "check", "confd.users.123.read",
		"--acl", "confd.users.*.read",
	)

	require.NoError(t, err)
	assert.Contains(t, output, "granted: confd.users.123.read")
}

func TestACLCheck_Denied(t *testing.T) {
	_, err := execute(t,
		"acl", "check", "confd.users.123.delete",
		"--acl", "confd.users.*.read",
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestACLCheck_NegativeRuleWins(t *testing.T) {
	_, err := execute(t,
		"acl", "check", "confd.users.123.read",
		"--acl", "confd.#",
		"--acl", "!confd.users.123.read",
	)

	require.Error(t, err)
}

func TestACLCheck_PrincipalSubstitution(t *testing.T) {
	output, err := execute(t,
		"acl", "check", "confd.users.42.read",
		"--acl", "confd.users.me.read",
		"--principal", "42",
	)

	require.NoError(t, err)
	assert.Contains(t, output, "granted")
}

func TestACLCheck_SessionSubstitution(t *testing.T) {
	_, err := execute(t,
		"acl", "check", "websocketd.sessions.sess-1.subscribe",
		"--acl", "websocketd.sessions.my_session.subscribe",
		"--session", "sess-1",
	)

	require.NoError(t, err)
}

func TestACLCheck_RequiresArgument(t *testing.T) {
	_, err := execute(t, "acl", "check")

	require.Error(t, err)
}
