package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCommands(t *testing.T) {
	cmds := getCommands("test")

	names := make(map[string]bool, len(cmds))
	for _, cmd := range cmds {
		require.False(t, names[cmd.Name], "duplicate command %q", cmd.Name)
		names[cmd.Name] = true
		assert.NotEmpty(t, cmd.Usage, "command %q has no usage", cmd.Name)
		assert.NotNil(t, cmd.Action, "command %q has no action", cmd.Name)
	}

	for _, name := range []string{
		"migrate",
		"version",
		"encrypt",
		"decrypt",
		"verify-password",
		"create-keypair",
		"create-local-kms-key",
		"save-document",
		"read-document",
	} {
		assert.True(t, names[name], "missing command %q", name)
	}
}
