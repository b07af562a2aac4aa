package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/mechcheck/internal/config"
)

func TestSelectVersions(t *testing.T) {
	all := []config.VersionConfig{{Name: "v3.1"}, {Name: "v3.2"}, {Name: "v3.3.1"}}

	got, err := selectVersions(all, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = selectVersions(all, []string{"v3.3*"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v3.3.1", got[0].Name)

	got, err = selectVersions(all, []string{"v3.1", "v3.2"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = selectVersions(all, []string{"v4*"})
	assert.Error(t, err)

	_, err = selectVersions(all, []string{"v[3"})
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"check", "translate", "serve", "versions"} {
		assert.True(t, names[want], want)
	}
}
