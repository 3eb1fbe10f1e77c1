package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// unsetEnv clears the variables for the duration of the test, restoring them
// afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestMustLoadDefaults(t *testing.T) {
	unsetEnv(t, "LP_CONFIG_PATH", "ENV", "PORT", "CHAIN_ID", "CUSTODY_PRIVATE_KEYS", "LIQUIDITY_CUSTODY_ACCOUNT_NAME")

	cfg := MustLoad()
	require.Equal(t, "development", cfg.Env)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 2, cfg.Chain.ChainID)
	require.Equal(t, "liquidity", cfg.Chain.CustodyAccountName)
	require.Empty(t, cfg.Chain.CustodyPrivateKeys)
}

func TestMustLoadFromEnv(t *testing.T) {
	unsetEnv(t, "LP_CONFIG_PATH")
	t.Setenv("CHAIN_ID", "1")
	t.Setenv("CUSTODY_PRIVATE_KEYS", `{"liquidity": "00"}`)
	t.Setenv("PORT", "9999")

	cfg := MustLoad()
	require.Equal(t, 1, cfg.Chain.ChainID)
	require.Equal(t, `{"liquidity": "00"}`, cfg.Chain.CustodyPrivateKeys)
	require.Equal(t, "9999", cfg.Server.Port)
}

func TestMustLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("env: production\nserver:\n  port: \"7070\"\nchain:\n  chain_id: 21\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	unsetEnv(t, "ENV", "PORT", "CHAIN_ID")
	t.Setenv("LP_CONFIG_PATH", path)

	cfg := MustLoad()
	require.Equal(t, "production", cfg.Env)
	require.Equal(t, "7070", cfg.Server.Port)
	require.Equal(t, 21, cfg.Chain.ChainID)
}
