package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full process configuration. Values come from a YAML file when
// LP_CONFIG_PATH is set, with environment variables taking precedence; the
// environment variable names match the original deployment (.env) layout.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"development"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Chain    ChainConfig    `yaml:"chain"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT" env-default:"8080"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN" env-default:"liquidity.db"`
}

// ChainConfig selects the value-transfer network and the custody material.
// The presence or absence of CustodyPrivateKeys drives execution strategy
// selection at startup.
type ChainConfig struct {
	ChainID            int    `yaml:"chain_id" env:"CHAIN_ID" env-default:"2"`
	JSONRPCURL         string `yaml:"json_rpc_url" env:"JSON_RPC_URL" env-default:"http://localhost:8090/v1"`
	CustodyAccountName string `yaml:"custody_account_name" env:"LIQUIDITY_CUSTODY_ACCOUNT_NAME" env-default:"liquidity"`
	CustodyPrivateKeys string `yaml:"custody_private_keys" env:"CUSTODY_PRIVATE_KEYS"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"liquidity-secret-key"`
}

// MustLoad reads the configuration, exiting on failure. A missing config file
// is only an error when LP_CONFIG_PATH explicitly names one.
func MustLoad() *Config {
	var cfg Config

	if path := os.Getenv("LP_CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			log.Fatalf("failed to find config file: %v\n", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			log.Fatalf("failed to read config file: %v", err)
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read environment config: %v", err)
	}
	return &cfg
}
