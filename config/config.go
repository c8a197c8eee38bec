package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"symbiosis-swap/pkg/types"
)

const (
	DefaultBaseURL         = "https://api-v2.symbiosis.finance/crosschain/"
	DefaultTimeout         = 30 * time.Second
	DefaultTrackerFileName = ".symbiosis-swap-tracked.json"
	EnvPrefix              = "SYMBIOSIS"
)

// NetworkConfig holds RPC settings for one EVM chain
type NetworkConfig struct {
	RPCURL   string  `mapstructure:"rpc_url"`
	GasLimit *uint64 `mapstructure:"gas_limit"`
	GasPrice *int64  `mapstructure:"gas_price"`
}

// WalletConfig holds the signing key and the chains it may send on
type WalletConfig struct {
	PrivateKey string                   `mapstructure:"private_key"`
	Networks   map[string]NetworkConfig `mapstructure:"networks"`
}

// Config holds the application configuration
type Config struct {
	PartnerID   string        `mapstructure:"partner_id"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	TrackerFile string        `mapstructure:"tracker_file"`
	Wallet      WalletConfig  `mapstructure:"wallet"`
}

var globalConfig *Config

// Load reads configuration from environment variables and the optional
// .symbiosis-swap.yaml file in $HOME or the working directory.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName(".symbiosis-swap")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return build(v)
}

// LoadFile reads configuration from an explicit file plus environment variables.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	// Set default values
	v.SetDefault("partner_id", "")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("tracker_file", "")
	v.SetDefault("wallet.private_key", "")

	// Read from environment variables, e.g. SYMBIOSIS_WALLET_PRIVATE_KEY
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if cfg.TrackerFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.TrackerFile = filepath.Join(home, DefaultTrackerFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = cfg
	return cfg, nil
}

// Validate checks the values that would otherwise fail on first use
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// Network returns the RPC settings for chain, looked up by chain name or numeric id.
func (c *Config) Network(chain types.Chain) (NetworkConfig, error) {
	for _, key := range []string{chain.String(), strconv.FormatUint(chain.ID(), 10)} {
		if n, ok := c.Wallet.Networks[key]; ok {
			return n, nil
		}
	}
	return NetworkConfig{}, fmt.Errorf("no RPC configured for chain %s. Set wallet.networks.%s.rpc_url in .symbiosis-swap.yaml", chain, chain)
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
