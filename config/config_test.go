package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8545", cfg.RPCAddress)
	require.FileExists(t, path)

	fee, err := cfg.FeeAmount()
	require.NoError(t, err)
	require.Zero(t, fee.Cmp(big.NewInt(5)))
	require.NoError(t, cfg.Validate())

	// A second load reads the file written by the first.
	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.RPCAddress, reloaded.RPCAddress)
	require.Equal(t, cfg.TreasuryAddress, reloaded.TreasuryAddress)
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
RPCAddress = ":9000"
Fee = "12"
MarkUpLimit = "50"
TreasuryAddress = "0x1111111111111111111111111111111111111111"
CollectorAddress = "0x2222222222222222222222222222222222222222"
VaultAddress = "0x3333333333333333333333333333333333333333"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.RPCAddress)

	fee, err := cfg.FeeAmount()
	require.NoError(t, err)
	require.Zero(t, fee.Cmp(big.NewInt(12)))

	treasury, err := cfg.Treasury()
	require.NoError(t, err)
	require.Equal(t, byte(0x11), treasury[0])
	// Unset fields fall back to defaults.
	require.Equal(t, "./swapvault-data", cfg.DataDir)
}

func TestValidateRejectsBadAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `TreasuryAddress = "not-an-address"`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "TreasuryAddress")
}

func TestValidateRejectsDuplicateAccounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
TreasuryAddress = "0x1111111111111111111111111111111111111111"
CollectorAddress = "0x1111111111111111111111111111111111111111"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "distinct")
}

func TestValidateRejectsBadAmount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`Fee = "-3"`), 0o644))
	_, err := Load(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`Fee = "five"`), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}
