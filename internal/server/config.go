package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/feltworks/feltd/internal/game"
)

// Config represents the complete server configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Table  *TableSettings  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings configures the single table this process hosts
type TableSettings struct {
	Seats            int   `hcl:"seats,optional"`
	HoleCardDelayMS  int   `hcl:"hole_card_delay_ms,optional"`
	BoardDealDelayMS int   `hcl:"board_deal_delay_ms,optional"`
	Seed             int64 `hcl:"seed,optional"` // 0 means seed from the clock
}

// DefaultConfig returns the stock configuration: a two-seat table on port 3001
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     3001,
			LogLevel: "info",
		},
		Table: &TableSettings{
			Seats:            2,
			HoleCardDelayMS:  500,
			BoardDealDelayMS: 800,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Table == nil {
		c.Table = &TableSettings{}
	}
	if c.Table.Seats == 0 {
		c.Table.Seats = 2
	}
	if c.Table.HoleCardDelayMS == 0 {
		c.Table.HoleCardDelayMS = 500
	}
	if c.Table.BoardDealDelayMS == 0 {
		c.Table.BoardDealDelayMS = 800
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Table.Seats < 2 {
		return fmt.Errorf("table needs at least 2 seats, got %d", c.Table.Seats)
	}
	if c.Table.HoleCardDelayMS < 0 || c.Table.BoardDealDelayMS < 0 {
		return fmt.Errorf("deal delays must be non-negative")
	}
	return nil
}

// ServerAddress returns the full listen address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TableConfig converts the table block into engine configuration
func (c *Config) TableConfig() game.Config {
	return game.Config{
		Seats:          c.Table.Seats,
		HoleCardDelay:  time.Duration(c.Table.HoleCardDelayMS) * time.Millisecond,
		BoardDealDelay: time.Duration(c.Table.BoardDealDelayMS) * time.Millisecond,
	}
}
