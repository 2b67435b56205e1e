package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// Config is the on-disk daemon configuration. Monetary amounts are decimal
// strings in base units so operators never deal with float rounding.
type Config struct {
	RPCAddress  string `toml:"RPCAddress"`
	DataDir     string `toml:"DataDir"`
	Environment string `toml:"Environment"`
	LogFile     string `toml:"LogFile"`

	Fee         string `toml:"Fee"`
	MarkUpLimit string `toml:"MarkUpLimit"`

	TreasuryAddress  string `toml:"TreasuryAddress"`
	CollectorAddress string `toml:"CollectorAddress"`
	VaultAddress     string `toml:"VaultAddress"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = ":8545"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./swapvault-data"
	}
	if strings.TrimSpace(cfg.Environment) == "" {
		cfg.Environment = "local"
	}
	if strings.TrimSpace(cfg.Fee) == "" {
		cfg.Fee = "5"
	}
	if strings.TrimSpace(cfg.MarkUpLimit) == "" {
		cfg.MarkUpLimit = "1000"
	}
	if strings.TrimSpace(cfg.TreasuryAddress) == "" {
		cfg.TreasuryAddress = "0x00000000000000000000000000000000000000fe"
	}
	if strings.TrimSpace(cfg.CollectorAddress) == "" {
		cfg.CollectorAddress = "0x00000000000000000000000000000000000000fc"
	}
	if strings.TrimSpace(cfg.VaultAddress) == "" {
		cfg.VaultAddress = "0x00000000000000000000000000000000000000fd"
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks addresses and amounts without mutating the config.
func (c *Config) Validate() error {
	if _, err := c.FeeAmount(); err != nil {
		return err
	}
	if _, err := c.MarkUpLimitAmount(); err != nil {
		return err
	}
	treasury, err := parseAddress("TreasuryAddress", c.TreasuryAddress)
	if err != nil {
		return err
	}
	collector, err := parseAddress("CollectorAddress", c.CollectorAddress)
	if err != nil {
		return err
	}
	vault, err := parseAddress("VaultAddress", c.VaultAddress)
	if err != nil {
		return err
	}
	if treasury == collector || treasury == vault || collector == vault {
		return fmt.Errorf("treasury, collector and vault addresses must be distinct")
	}
	return nil
}

// FeeAmount parses the configured flat fee.
func (c *Config) FeeAmount() (*big.Int, error) {
	return parseAmount("Fee", c.Fee)
}

// MarkUpLimitAmount parses the configured mark-up ceiling.
func (c *Config) MarkUpLimitAmount() (*big.Int, error) {
	return parseAmount("MarkUpLimit", c.MarkUpLimit)
}

// Treasury returns the fee treasury account.
func (c *Config) Treasury() ([20]byte, error) {
	return parseAddress("TreasuryAddress", c.TreasuryAddress)
}

// Collector returns the in-flight payment account.
func (c *Config) Collector() ([20]byte, error) {
	return parseAddress("CollectorAddress", c.CollectorAddress)
}

// Vault returns the custody account.
func (c *Config) Vault() ([20]byte, error) {
	return parseAddress("VaultAddress", c.VaultAddress)
}

func parseAmount(field, value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("%s: invalid amount %q", field, value)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("%s: amount must be non-negative", field)
	}
	return amount, nil
}

func parseAddress(field, value string) ([20]byte, error) {
	var addr [20]byte
	trimmed := strings.TrimSpace(value)
	if !common.IsHexAddress(trimmed) {
		return addr, fmt.Errorf("%s: invalid address %q", field, value)
	}
	parsed := common.HexToAddress(trimmed)
	copy(addr[:], parsed.Bytes())
	if addr == ([20]byte{}) {
		return addr, fmt.Errorf("%s: address must not be zero", field)
	}
	return addr, nil
}
