package server

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains listener-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings contains the stakes applied to every room.
type GameSettings struct {
	SmallBlind int `hcl:"small_blind,optional"`
	BigBlind   int `hcl:"big_blind,optional"`
	BuyIn      int `hcl:"buy_in,optional"`

	// ShortAllInReopens selects the loose reopening rule for short all-in
	// raises. Defaults on.
	ShortAllInReopens *bool `hcl:"short_all_in_reopens,optional"`
}

// DefaultConfig returns the defaults used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			SmallBlind: 5,
			BigBlind:   10,
			BuyIn:      1000,
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields the
// defaults.
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

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Game.SmallBlind == 0 {
		config.Game.SmallBlind = 5
	}
	if config.Game.BigBlind == 0 {
		config.Game.BigBlind = 10
	}
	if config.Game.BuyIn == 0 {
		config.Game.BuyIn = 1000
	}

	return &config, nil
}

// Validate checks the configuration for internally consistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Game.BigBlind <= c.Game.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Game.BuyIn < c.Game.BigBlind {
		return fmt.Errorf("buy-in %d is below the big blind", c.Game.BuyIn)
	}
	return nil
}

// ShortAllInReopens resolves the optional flag, defaulting to true.
func (c *Config) ShortAllInReopens() bool {
	if c.Game.ShortAllInReopens == nil {
		return true
	}
	return *c.Game.ShortAllInReopens
}

// SetAddr overrides the listen address from a host:port string.
func (c *Config) SetAddr(addr string) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port in listen address %q: %w", addr, err)
	}
	c.Server.Address = host
	c.Server.Port = port
	return nil
}

// Addr returns the full listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
