package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"nexledger/core/types"
	"nexledger/crypto"

	"github.com/BurntSushi/toml"
)

// Config carries the daemon settings. Amount fields are expressed in whole
// NEX with optional decimals ("0.5") and converted to wei on demand.
type Config struct {
	RPCAddress        string  `toml:"RPCAddress"`
	DataDir           string  `toml:"DataDir"`
	NetworkName       string  `toml:"NetworkName"`
	OwnerKeystorePath string  `toml:"OwnerKeystorePath"`
	Lottery           Lottery `toml:"lottery"`
	Genesis           Genesis `toml:"genesis"`
}

// Lottery holds the configurable part of the payout split. Prize and ticket
// price are protocol constants and deliberately not configurable.
type Lottery struct {
	RevealerRewardNEX string `toml:"RevealerRewardNEX"`
}

// Genesis lists the one-time balance allocations for a fresh store, keyed
// by bech32 address.
type Genesis struct {
	Alloc map[string]string `toml:"alloc"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s has unknown key %s", path, undecoded[0])
	}

	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "nex-local"
	}
	if cfg.OwnerKeystorePath == "" {
		cfg.OwnerKeystorePath = defaultKeystorePath(path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the amount fields and genesis addresses.
func (c *Config) Validate() error {
	reward, err := c.RevealerRewardWei()
	if err != nil {
		return err
	}
	// The pot of a full round is fixed; the reward must leave room for the
	// prize so the owner share stays non-negative.
	maxReward := types.NEX(5)
	if reward.Cmp(maxReward) > 0 {
		return fmt.Errorf("config: RevealerRewardNEX %s exceeds distributable share of 5 NEX", c.Lottery.RevealerRewardNEX)
	}
	for addr, amount := range c.Genesis.Alloc {
		if _, err := crypto.DecodeAddress(addr); err != nil {
			return fmt.Errorf("config: genesis alloc address %q: %w", addr, err)
		}
		if _, err := types.ParseNEX(amount); err != nil {
			return fmt.Errorf("config: genesis alloc amount for %q: %w", addr, err)
		}
	}
	return nil
}

// RevealerRewardWei converts the configured reveal reward into wei.
func (c *Config) RevealerRewardWei() (*big.Int, error) {
	raw := strings.TrimSpace(c.Lottery.RevealerRewardNEX)
	if raw == "" {
		return big.NewInt(0), nil
	}
	reward, err := types.ParseNEX(raw)
	if err != nil {
		return nil, fmt.Errorf("config: RevealerRewardNEX: %w", err)
	}
	return reward, nil
}

// GenesisAlloc decodes the configured allocations into raw addresses and
// wei amounts.
func (c *Config) GenesisAlloc() (map[[20]byte]*big.Int, error) {
	alloc := make(map[[20]byte]*big.Int, len(c.Genesis.Alloc))
	for addrStr, amountStr := range c.Genesis.Alloc {
		addr, err := crypto.DecodeAddress(addrStr)
		if err != nil {
			return nil, err
		}
		amount, err := types.ParseNEX(amountStr)
		if err != nil {
			return nil, err
		}
		alloc[addr.Raw()] = amount
	}
	return alloc, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RPCAddress:        ":8545",
		DataDir:           "./nex-data",
		NetworkName:       "nex-local",
		OwnerKeystorePath: defaultKeystorePath(path),
		Lottery:           Lottery{RevealerRewardNEX: "0"},
		Genesis:           Genesis{Alloc: map[string]string{}},
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultKeystorePath(configPath string) string {
	dir := filepath.Dir(configPath)
	return filepath.Join(dir, "owner.keystore")
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}
