package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Universe struct {
		URL          string   `yaml:"url"`
		FallbackFile string   `yaml:"fallback_file"`
		Symbols      []string `yaml:"symbols"`
	} `yaml:"universe"`
	Fundamentals struct {
		BaseURL        string  `yaml:"base_url"`
		APIKey         string  `yaml:"api_key"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
	} `yaml:"fundamentals"`
	Bars struct {
		BaseURL        string  `yaml:"base_url"`
		APIKey         string  `yaml:"api_key"`
		LookbackDays   int     `yaml:"lookback_days"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
	} `yaml:"bars"`
	Market struct {
		IndexSymbol string `yaml:"index_symbol"`
		VIXSymbol   string `yaml:"vix_symbol"`
	} `yaml:"market"`
	Regime struct {
		BullishVIXMax float64 `yaml:"bullish_vix_max"`
		BearishVIXMin float64 `yaml:"bearish_vix_min"`
	} `yaml:"regime"`
	Screen struct {
		MinMarketCap      float64  `yaml:"min_market_cap"`
		MaxDebtToEquity   float64  `yaml:"max_debt_to_equity"`
		MinROCE           float64  `yaml:"min_roce"`
		MinSalesGrowth5Y  float64  `yaml:"min_sales_growth_5y"`
		MinProfitGrowth5Y float64  `yaml:"min_profit_growth_5y"`
		MinHistoryBars    int      `yaml:"min_history_bars"`
		ExcludedSectors   []string `yaml:"excluded_sectors"`
	} `yaml:"screen"`
	Risk struct {
		Capital      float64 `yaml:"capital"`
		RiskPerTrade float64 `yaml:"risk_per_trade"`
		StopRatio    float64 `yaml:"stop_ratio"`
		TargetRatio  float64 `yaml:"target_ratio"`
	} `yaml:"risk"`
	Workers  int `yaml:"workers"`
	Schedule struct {
		ScreenCron string `yaml:"screen_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; the environment
// alone can carry a complete configuration.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("UNIVERSE_URL"); v != "" {
		cfg.Universe.URL = v
	}
	if v := os.Getenv("FUNDAMENTALS_BASE_URL"); v != "" {
		cfg.Fundamentals.BaseURL = v
	}
	if v := os.Getenv("FUNDAMENTALS_API_KEY"); v != "" {
		cfg.Fundamentals.APIKey = v
	}
	if v := os.Getenv("BARS_BASE_URL"); v != "" {
		cfg.Bars.BaseURL = v
	}
	if v := os.Getenv("BARS_API_KEY"); v != "" {
		cfg.Bars.APIKey = v
	}
	if v := os.Getenv("CAPITAL"); v != "" {
		if capital, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Risk.Capital = capital
		}
	}
	if v := os.Getenv("CRON_SCREEN"); v != "" {
		cfg.Schedule.ScreenCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Market.IndexSymbol == "" {
		cfg.Market.IndexSymbol = "NIFTY"
	}
	if cfg.Market.VIXSymbol == "" {
		cfg.Market.VIXSymbol = "INDIAVIX"
	}
	if cfg.Regime.BullishVIXMax == 0 {
		cfg.Regime.BullishVIXMax = 15
	}
	if cfg.Regime.BearishVIXMin == 0 {
		cfg.Regime.BearishVIXMin = 20
	}
	if cfg.Screen.MinMarketCap == 0 {
		cfg.Screen.MinMarketCap = 500
	}
	if cfg.Screen.MaxDebtToEquity == 0 {
		cfg.Screen.MaxDebtToEquity = 0.2
	}
	if cfg.Screen.MinROCE == 0 {
		cfg.Screen.MinROCE = 20
	}
	if cfg.Screen.MinSalesGrowth5Y == 0 {
		cfg.Screen.MinSalesGrowth5Y = 10
	}
	if cfg.Screen.MinProfitGrowth5Y == 0 {
		cfg.Screen.MinProfitGrowth5Y = 15
	}
	if cfg.Screen.MinHistoryBars == 0 {
		cfg.Screen.MinHistoryBars = 210
	}
	if cfg.Screen.ExcludedSectors == nil {
		cfg.Screen.ExcludedSectors = []string{"Alcoholic Beverages", "Media", "Banking", "Finance"}
	}
	if cfg.Risk.Capital == 0 {
		cfg.Risk.Capital = 100000
	}
	if cfg.Risk.RiskPerTrade == 0 {
		cfg.Risk.RiskPerTrade = 0.02
	}
	if cfg.Risk.StopRatio == 0 {
		cfg.Risk.StopRatio = 0.96
	}
	if cfg.Risk.TargetRatio == 0 {
		cfg.Risk.TargetRatio = 1.06
	}
	if cfg.Bars.LookbackDays == 0 {
		cfg.Bars.LookbackDays = 300
	}
	if cfg.Bars.RequestsPerSec == 0 {
		cfg.Bars.RequestsPerSec = 4
	}
	if cfg.Fundamentals.RequestsPerSec == 0 {
		cfg.Fundamentals.RequestsPerSec = 4
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Schedule.ScreenCron == "" {
		cfg.Schedule.ScreenCron = "0 30 17 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockscout.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and the numeric knobs
// make sense as a run configuration.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Universe.URL == "" && c.Universe.FallbackFile == "" && len(c.Universe.Symbols) == 0 {
		return fmt.Errorf("universe needs at least one source: url, fallback_file or symbols")
	}
	if c.Fundamentals.BaseURL == "" {
		return fmt.Errorf("fundamentals.base_url is required")
	}
	if c.Risk.Capital <= 0 {
		return fmt.Errorf("risk.capital must be positive")
	}
	if c.Risk.RiskPerTrade <= 0 || c.Risk.RiskPerTrade >= 1 {
		return fmt.Errorf("risk.risk_per_trade must be a fraction between 0 and 1")
	}
	if c.Risk.StopRatio <= 0 || c.Risk.StopRatio >= 1 {
		return fmt.Errorf("risk.stop_ratio must be between 0 and 1")
	}
	if c.Risk.TargetRatio <= 1 {
		return fmt.Errorf("risk.target_ratio must be above 1")
	}
	if c.Regime.BullishVIXMax >= c.Regime.BearishVIXMin {
		return fmt.Errorf("regime.bullish_vix_max must be below bearish_vix_min")
	}
	if c.Screen.MinHistoryBars <= 0 {
		return fmt.Errorf("screen.min_history_bars must be positive")
	}
	if c.Bars.LookbackDays <= 0 {
		return fmt.Errorf("bars.lookback_days must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}
