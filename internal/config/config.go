package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultFile is the config path used when none is given
const DefaultFile = "tictactoe.hcl"

// Config is the complete application configuration
type Config struct {
	Server  ServerSettings
	Players PlayerSettings
	Theme   string `validate:"oneof=light dark auto"`
}

// ServerSettings configures the HTTP server and logging
type ServerSettings struct {
	Address  string `hcl:"address,optional" validate:"required"`
	Port     int    `hcl:"port,optional" validate:"min=1,max=65535"`
	LogLevel string `hcl:"log_level,optional" validate:"oneof=debug info warn error"`
	LogFile  string `hcl:"log_file,optional"`
}

// PlayerSettings holds the names shown before anyone edits them
type PlayerSettings struct {
	X string `hcl:"x,optional" validate:"max=64"`
	O string `hcl:"o,optional" validate:"max=64"`
}

// file mirrors the HCL layout, where every block is optional
type file struct {
	Server  *ServerSettings `hcl:"server,block"`
	Players *PlayerSettings `hcl:"players,block"`
	Theme   string          `hcl:"theme,optional"`
}

var validate = validator.New()

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Players: PlayerSettings{
			X: "Player X",
			O: "Player O",
		},
		Theme: "light",
	}
}

// Load reads an HCL config file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if raw.Server != nil {
		if raw.Server.Address != "" {
			cfg.Server.Address = raw.Server.Address
		}
		if raw.Server.Port != 0 {
			cfg.Server.Port = raw.Server.Port
		}
		if raw.Server.LogLevel != "" {
			cfg.Server.LogLevel = raw.Server.LogLevel
		}
		cfg.Server.LogFile = raw.Server.LogFile
	}
	// blank names are allowed, so the block replaces both
	if raw.Players != nil {
		cfg.Players = *raw.Players
	}
	if raw.Theme != "" {
		cfg.Theme = raw.Theme
	}

	return cfg, nil
}

// Validate checks every field against its constraints
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", fe.Namespace()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fe.Value()))
		case "min", "max":
			details = append(details, fmt.Sprintf("%s must be %s %s, got %v", fe.Namespace(), bound(fe.Tag()), fe.Param(), fe.Value()))
		default:
			details = append(details, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(details, "; "))
}

func bound(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}

// GetServerAddress returns host:port
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Level returns the parsed log level
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
