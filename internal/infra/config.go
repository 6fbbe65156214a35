package infra

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RosterEntry configures one group of identically funded participants.
// Money is a decimal string so starting balances survive YAML untouched.
type RosterEntry struct {
	Count int    `yaml:"count"`
	Money string `yaml:"money"`
	Stock int64  `yaml:"stock"`
}

// StartingMoney parses the configured balance. Validate has already
// checked it, so failures here mean the config was mutated after load.
func (r RosterEntry) StartingMoney() decimal.Decimal {
	d, err := decimal.NewFromString(r.Money)
	if err != nil {
		panic(fmt.Sprintf("unvalidated roster money %q: %v", r.Money, err))
	}
	return d
}

// Config holds the whole application configuration. Sensitive or
// machine-local values can be overridden through the environment after
// load.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Simulation struct {
		Ticks        int    `yaml:"ticks"`
		Seed         int64  `yaml:"seed"`
		InitialPrice string `yaml:"initial_price"`
	} `yaml:"simulation"`

	Participants struct {
		RandomWalkers  RosterEntry `yaml:"random_walkers"`
		ValueInvestors RosterEntry `yaml:"value_investors"`
		TrendFollowers RosterEntry `yaml:"trend_followers"`
	} `yaml:"participants"`

	DealLog struct {
		Dir string `yaml:"dir"`
	} `yaml:"deal_log"`

	Storage struct {
		Path string `yaml:"path"` // empty selects the per-user default
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// InitialPrice returns the configured seed reference price.
func (c *Config) InitialPrice() decimal.Decimal {
	d, err := decimal.NewFromString(c.Simulation.InitialPrice)
	if err != nil {
		panic(fmt.Sprintf("unvalidated initial price %q: %v", c.Simulation.InitialPrice, err))
	}
	return d
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Simulation.Ticks <= 0 {
		return fmt.Errorf("simulation ticks must be positive, got %d", c.Simulation.Ticks)
	}
	if p, err := decimal.NewFromString(c.Simulation.InitialPrice); err != nil {
		return fmt.Errorf("invalid initial price %q: %w", c.Simulation.InitialPrice, err)
	} else if p.IsNegative() {
		return fmt.Errorf("initial price must not be negative, got %s", p)
	}

	for _, r := range []struct {
		name  string
		entry RosterEntry
	}{
		{"random_walkers", c.Participants.RandomWalkers},
		{"value_investors", c.Participants.ValueInvestors},
		{"trend_followers", c.Participants.TrendFollowers},
	} {
		if r.entry.Count < 0 {
			return fmt.Errorf("%s count must not be negative", r.name)
		}
		if r.entry.Count == 0 {
			continue
		}
		if _, err := decimal.NewFromString(r.entry.Money); err != nil {
			return fmt.Errorf("%s money %q: %w", r.name, r.entry.Money, err)
		}
	}

	total := c.Participants.RandomWalkers.Count +
		c.Participants.ValueInvestors.Count +
		c.Participants.TrendFollowers.Count
	if total == 0 {
		return fmt.Errorf("at least one participant is required")
	}

	if c.DealLog.Dir == "" {
		return fmt.Errorf("deal_log dir is required")
	}

	return nil
}

// overrideWithEnv applies environment overrides when the variables exist.
func overrideWithEnv(cfg *Config) {
	if seed := os.Getenv("MARKET_SIM_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Simulation.Seed = v
		}
	}
	if ticks := os.Getenv("MARKET_SIM_TICKS"); ticks != "" {
		if v, err := strconv.Atoi(ticks); err == nil {
			cfg.Simulation.Ticks = v
		}
	}
	if dir := os.Getenv("MARKET_SIM_DEAL_LOG_DIR"); dir != "" {
		cfg.DealLog.Dir = dir
	}
	if path := os.Getenv("MARKET_SIM_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
}
