package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"halochain/config"
)

func TestResolveLogEnv(t *testing.T) {
	cfg := &config.Config{LogEnv: "staging"}

	t.Setenv("HALO_ENV", "")
	require.Equal(t, "staging", resolveLogEnv(cfg))

	t.Setenv("HALO_ENV", "prod")
	require.Equal(t, "prod", resolveLogEnv(cfg))
}

func TestResolveGenesisPath(t *testing.T) {
	cfg := &config.Config{GenesisFile: "./genesis.yaml"}

	t.Setenv("HALO_GENESIS", "")
	require.Equal(t, "/tmp/override.yaml", resolveGenesisPath("/tmp/override.yaml", cfg))
	require.Equal(t, "./genesis.yaml", resolveGenesisPath("", cfg))

	t.Setenv("HALO_GENESIS", "/tmp/env.yaml")
	require.Equal(t, "/tmp/env.yaml", resolveGenesisPath("", cfg))
}
