package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailPreviewCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"email", "preview", "welcome"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Welcome, Ada!")
}

func TestEmailPreviewCommand_UnknownTemplate(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"email", "preview", "nope"})

	assert.Error(t, root.Execute())
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "migrate", "email"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
