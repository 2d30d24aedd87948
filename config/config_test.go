package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nexledger/core/types"
	"nexledger/crypto"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8545", cfg.RPCAddress)
	require.Equal(t, "nex-local", cfg.NetworkName)
	require.Equal(t, filepath.Join(dir, "owner.keystore"), cfg.OwnerKeystorePath)
	require.Equal(t, "0", cfg.Lottery.RevealerRewardNEX)

	_, err = os.Stat(path)
	require.NoError(t, err)

	// reloading the written file yields the same settings
	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.RPCAddress, reloaded.RPCAddress)
	require.Equal(t, cfg.DataDir, reloaded.DataDir)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("RPCAddress = \":8545\"\nBogusKey = true\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown key")
}

func TestRevealerRewardConversion(t *testing.T) {
	cfg := &Config{Lottery: Lottery{RevealerRewardNEX: "0.5"}}
	reward, err := cfg.RevealerRewardWei()
	require.NoError(t, err)
	half := new(big.Int).Div(types.OneNEX, big.NewInt(2))
	require.Zero(t, reward.Cmp(half))

	cfg.Lottery.RevealerRewardNEX = ""
	reward, err = cfg.RevealerRewardWei()
	require.NoError(t, err)
	require.Zero(t, reward.Sign())

	cfg.Lottery.RevealerRewardNEX = "not-a-number"
	_, err = cfg.RevealerRewardWei()
	require.Error(t, err)
}

func TestValidateRewardCeiling(t *testing.T) {
	cfg := &Config{Lottery: Lottery{RevealerRewardNEX: "5"}}
	require.NoError(t, cfg.Validate())

	cfg.Lottery.RevealerRewardNEX = "5.000000000000000001"
	require.Error(t, cfg.Validate())
}

func TestGenesisAlloc(t *testing.T) {
	key, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	addr := key.PubKey().Address()

	cfg := &Config{Genesis: Genesis{Alloc: map[string]string{
		addr.String(): "2.5",
	}}}
	require.NoError(t, cfg.Validate())

	alloc, err := cfg.GenesisAlloc()
	require.NoError(t, err)
	want := new(big.Int).Div(types.NEX(5), big.NewInt(2))
	require.Zero(t, alloc[addr.Raw()].Cmp(want))
}

func TestValidateRejectsBadGenesisEntries(t *testing.T) {
	cfg := &Config{Genesis: Genesis{Alloc: map[string]string{
		"not-an-address": "1",
	}}}
	require.Error(t, cfg.Validate())

	key, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	cfg = &Config{Genesis: Genesis{Alloc: map[string]string{
		key.PubKey().Address().String(): "-1",
	}}}
	require.Error(t, cfg.Validate())
}
