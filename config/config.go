package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Defaults for the original PawSwap deployment on BSC.
const (
	DefaultRouterAddress  = "0x2b7f2Ac4128b2Af8bc289a4e496869542A4f0d90"
	DefaultPawswapAddress = "0xEcAE22Af24250146f73AfBfd4822Aa29185a841e"
	DefaultCharityWallet  = "0x9e84fe006aa1c290f4cbcd78be32131cbf52cb23"
	DefaultWrappedNative  = "0xae13d989daC2f0dEbFf460aC112a837C89BAa7cd"
	DefaultCharityAPIURL  = "https://api.getchange.io"
)

// Config holds the application configuration
type Config struct {
	RPCUrl            string
	ChainID           int64
	RouterAddress     string
	PawswapAddress    string
	WrappedNative     string
	PrivateKey        string
	CharityAPIURL     string
	CharityAPIKey     string
	DefaultCharity    string
	SlippageBips      int64
	TaxFetchTimeoutMS int64
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".pawswap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("chain_id", 97) // BSC testnet
	viper.SetDefault("router_address", DefaultRouterAddress)
	viper.SetDefault("pawswap_address", DefaultPawswapAddress)
	viper.SetDefault("wrapped_native_address", DefaultWrappedNative)
	viper.SetDefault("charity_api_url", DefaultCharityAPIURL)
	viper.SetDefault("default_charity_wallet", DefaultCharityWallet)
	viper.SetDefault("slippage_bips", 80)
	viper.SetDefault("tax_fetch_timeout_ms", 5000)

	// Read from environment variables
	viper.SetEnvPrefix("PAWSWAP")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	// Create config struct
	cfg := &Config{
		RPCUrl:            viper.GetString("rpc_url"),
		ChainID:           viper.GetInt64("chain_id"),
		RouterAddress:     viper.GetString("router_address"),
		PawswapAddress:    viper.GetString("pawswap_address"),
		WrappedNative:     viper.GetString("wrapped_native_address"),
		PrivateKey:        viper.GetString("private_key"),
		CharityAPIURL:     viper.GetString("charity_api_url"),
		CharityAPIKey:     viper.GetString("charity_api_key"),
		DefaultCharity:    viper.GetString("default_charity_wallet"),
		SlippageBips:      viper.GetInt64("slippage_bips"),
		TaxFetchTimeoutMS: viper.GetInt64("tax_fetch_timeout_ms"),
	}

	// An RPC endpoint is the only thing we cannot default
	if cfg.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not found. Please set PAWSWAP_RPC_URL environment variable or create a .pawswap.yaml config file")
	}

	globalConfig = cfg
	return cfg, nil
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
