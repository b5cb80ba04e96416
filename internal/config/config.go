package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	Env      string `mapstructure:"FRG_ENV"`
	HTTPAddr string `mapstructure:"FRG_HTTP_ADDR"`

	Launch   LaunchConfig   `mapstructure:",squash"`
	Sui      SuiConfig      `mapstructure:",squash"`
	Security SecurityConfig `mapstructure:",squash"`
}

// LaunchConfig holds the upstream endpoints used by the token launch flow.
type LaunchConfig struct {
	IPFSAPIURL  string `mapstructure:"FRG_IPFS_API_URL"`
	TradeAPIURL string `mapstructure:"FRG_TRADE_API_URL"`
	// ProxyURL, when set, is applied to the metadata upload request only.
	ProxyURL string `mapstructure:"FRG_PROXY_URL"`
}

type SuiConfig struct {
	RPCURL string `mapstructure:"FRG_SUI_RPC_URL"`
}

type SecurityConfig struct {
	RateLimitRPM       int      `mapstructure:"FRG_RATE_LIMIT_RPM"`
	CORSAllowedOrigins []string `mapstructure:"FRG_CORS_ALLOWED_ORIGINS"`
}

func loadDotEnvFiles() {
	candidates := []string{
		".env",
		filepath.Join("..", ".env"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			_ = gotenv.Load(path) // env vars already set take precedence
		}
	}
}

func Load() (*Config, error) {
	loadDotEnvFiles()

	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("FRG_ENV", "dev")
	viper.SetDefault("FRG_HTTP_ADDR", ":8080")
	viper.SetDefault("FRG_IPFS_API_URL", "https://pump.fun/api/ipfs")
	viper.SetDefault("FRG_TRADE_API_URL", "https://pumpportal.fun/api/trade-local")
	viper.SetDefault("FRG_PROXY_URL", "")
	viper.SetDefault("FRG_SUI_RPC_URL", "https://fullnode.mainnet.sui.io")
	viper.SetDefault("FRG_RATE_LIMIT_RPM", 120)
	viper.SetDefault("FRG_CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	keys := []string{
		"FRG_ENV",
		"FRG_HTTP_ADDR",
		"FRG_IPFS_API_URL",
		"FRG_TRADE_API_URL",
		"FRG_PROXY_URL",
		"FRG_SUI_RPC_URL",
		"FRG_RATE_LIMIT_RPM",
		"FRG_CORS_ALLOWED_ORIGINS",
	}
	for _, key := range keys {
		if err := viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env var %s: %w", key, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Viper reads comma-separated env values as a single string.
	if len(cfg.Security.CORSAllowedOrigins) == 1 && strings.Contains(cfg.Security.CORSAllowedOrigins[0], ",") {
		cfg.Security.CORSAllowedOrigins = splitAndTrim(cfg.Security.CORSAllowedOrigins[0])
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	for name, raw := range map[string]string{
		"FRG_IPFS_API_URL":  c.Launch.IPFSAPIURL,
		"FRG_TRADE_API_URL": c.Launch.TradeAPIURL,
		"FRG_SUI_RPC_URL":   c.Sui.RPCURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}

	if c.Launch.ProxyURL != "" {
		if _, err := url.Parse(c.Launch.ProxyURL); err != nil {
			return fmt.Errorf("invalid FRG_PROXY_URL: %w", err)
		}
	}

	if c.Security.RateLimitRPM <= 0 {
		return fmt.Errorf("FRG_RATE_LIMIT_RPM must be positive, got %d", c.Security.RateLimitRPM)
	}

	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
