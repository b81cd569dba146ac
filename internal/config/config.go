package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"RedPacket/internal/money"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Drop is a red packet sent on a cron schedule.
type Drop struct {
	Name       string `yaml:"name"`
	Cron       string `yaml:"cron"`
	Amount     string `yaml:"amount"`
	Recipients int    `yaml:"recipients"`
	Message    string `yaml:"message"`
}

// Total parses the drop amount.
func (d Drop) Total() (decimal.Decimal, error) {
	amount, err := money.Parse(d.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("drop %s: %w", d.Name, err)
	}
	return amount, nil
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Packet struct {
		StateFile     string        `yaml:"state_file"`
		Seed          uint64        `yaml:"seed"`
		TTL           time.Duration `yaml:"ttl"`
		MaxRecipients int           `yaml:"max_recipients"`
		Retention     time.Duration `yaml:"retention"`
	} `yaml:"packet"`
	Schedule struct {
		ExpiryCron string `yaml:"expiry_cron"`
		PruneCron  string `yaml:"prune_cron"`
	} `yaml:"schedule"`
	Drops    []Drop `yaml:"drops"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
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
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PACKET_STATE_FILE"); v != "" {
		cfg.Packet.StateFile = v
	}
	if v := os.Getenv("PACKET_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse PACKET_SEED: %w", err)
		}
		cfg.Packet.Seed = seed
	}

	// Defaults
	if cfg.Packet.StateFile == "" {
		cfg.Packet.StateFile = "data/packets.json"
	}
	if cfg.Packet.TTL == 0 {
		cfg.Packet.TTL = 24 * time.Hour
	}
	if cfg.Packet.MaxRecipients == 0 {
		cfg.Packet.MaxRecipients = 100
	}
	if cfg.Packet.Retention == 0 {
		cfg.Packet.Retention = 30 * 24 * time.Hour
	}
	if cfg.Schedule.ExpiryCron == "" {
		cfg.Schedule.ExpiryCron = "0 */5 * * * *"
	}
	if cfg.Schedule.PruneCron == "" {
		cfg.Schedule.PruneCron = "0 0 4 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/red_packet.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Packet.TTL < 0 {
		return fmt.Errorf("packet.ttl must not be negative")
	}
	if c.Packet.MaxRecipients < 0 {
		return fmt.Errorf("packet.max_recipients must not be negative")
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for _, spec := range []string{c.Schedule.ExpiryCron, c.Schedule.PruneCron} {
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("schedule %q: %w", spec, err)
		}
	}
	for i, d := range c.Drops {
		if d.Name == "" {
			return fmt.Errorf("drops[%d].name is required", i)
		}
		if _, err := parser.Parse(d.Cron); err != nil {
			return fmt.Errorf("drops[%d] %s cron %q: %w", i, d.Name, d.Cron, err)
		}
		amount, err := d.Total()
		if err != nil {
			return err
		}
		if !amount.IsPositive() {
			return fmt.Errorf("drops[%d] %s amount must be positive", i, d.Name)
		}
		if d.Recipients <= 0 {
			return fmt.Errorf("drops[%d] %s recipients must be positive", i, d.Name)
		}
		if c.Packet.MaxRecipients > 0 && d.Recipients > c.Packet.MaxRecipients {
			return fmt.Errorf("drops[%d] %s recipients exceed packet.max_recipients", i, d.Name)
		}
	}
	return nil
}
