package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	CoinAPI CoinAPIConfig `mapstructure:"coinapi"`
	Log     LogConfig     `mapstructure:"log"`
	Sqlite  SqliteConfig  `mapstructure:"sqlite"`
	Chart   ChartConfig   `mapstructure:"chart"`
}

type CoinAPIConfig struct {
	WS WSConfig `mapstructure:"ws"`

	// SymbolID is the single instrument the process subscribes to.
	SymbolID string `mapstructure:"symbol_id"`

	// Environment selects the credential source: "dev" reads the
	// COINAPI_API_KEY environment variable (with .env support),
	// "prod" reads AWS SSM Parameter Store.
	Environment string `mapstructure:"environment"`
}

type WSConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// SqliteConfig defines the single-file trade store.
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// ChartConfig defines where the rendered chart ends up.
type ChartConfig struct {
	OutputFile string `mapstructure:"output_file"` // HTML file written after ingest stops
	ListenAddr string `mapstructure:"listen_addr"` // local address serving the chart
}

// Load loads application configuration using Viper.
// It reads from config.yaml when present and overrides with environment
// variables; every key has a default so the program runs with no file at all.
func Load() *Config {
	v := viper.New()

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")

	v.SetDefault("coinapi.ws.url", "wss://ws.coinapi.io/v1/")
	v.SetDefault("coinapi.ws.timeout", 10*time.Second)
	v.SetDefault("coinapi.symbol_id", "BITSTAMP_SPOT_BTC_USD")
	v.SetDefault("coinapi.environment", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.environment", "dev")
	v.SetDefault("sqlite.path", "trades.db")
	v.SetDefault("chart.output_file", "trades.html")
	v.SetDefault("chart.listen_addr", "localhost:8089")

	// TODO: env path
	ex, _ := os.Executable()
	if strings.Contains(ex, "go-build") {
		pwd, _ := os.Getwd()
		v.AddConfigPath(filepath.Join(pwd, "../../config"))
	} else {
		v.AddConfigPath(filepath.Join(filepath.Dir(ex), "../config"))
	}
	v.AddConfigPath(".")

	// Support environment variables with dot notation (e.g., COINAPI_WS_URL)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Defaults cover everything; only a malformed file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("failed to read config: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	return &cfg
}
