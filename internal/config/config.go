// Package config loads the flowty configuration from .flowty/config.* in the
// project root, FLOWTY_* environment variables and a .env file.
package config

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cottand/flowty/flowty"
	"github.com/cottand/flowty/frontend/estree"
	"github.com/cottand/flowty/frontend/flow"
	"github.com/cottand/flowty/internal/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Completion CompletionConfig `mapstructure:"completion"`
	Parser     ParserConfig     `mapstructure:"parser"`
	Workspace  WorkspaceConfig  `mapstructure:"workspace"`
	Check      CheckConfig      `mapstructure:"check"`
	// ExactByDefault makes object type annotations exact unless they end
	// with '...'
	ExactByDefault bool `mapstructure:"exactByDefault"`
}

type LogConfig struct {
	Level    string   `mapstructure:"level"`
	Sections []string `mapstructure:"sections"`
}

type CompletionConfig struct {
	MaxItems      int  `mapstructure:"maxItems"`
	InsertReplace bool `mapstructure:"insertReplace"`
}

// ParserConfig is the external command that prints the ESTree of a module
type ParserConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	// Offsets is "js-indices" or "utf8-bytes"
	Offsets string `mapstructure:"offsets"`
}

type WorkspaceConfig struct {
	MaxSessions int `mapstructure:"maxSessions"`
}

type CheckConfig struct {
	// Parallelism is the number of files checked at once
	Parallelism int `mapstructure:"parallelism"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:    "error",
			Sections: []string{"session", "flow"},
		},
		Completion: CompletionConfig{
			MaxItems: 100,
		},
		Parser: ParserConfig{
			Command: "flow",
			Args:    []string{"ast"},
			Offsets: "js-indices",
		},
		Workspace:      WorkspaceConfig{MaxSessions: 64},
		Check:          CheckConfig{Parallelism: 4},
		ExactByDefault: true,
	}
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.sections", c.Log.Sections)
	v.SetDefault("completion.maxItems", c.Completion.MaxItems)
	v.SetDefault("completion.insertReplace", c.Completion.InsertReplace)
	v.SetDefault("parser.command", c.Parser.Command)
	v.SetDefault("parser.args", c.Parser.Args)
	v.SetDefault("parser.offsets", c.Parser.Offsets)
	v.SetDefault("workspace.maxSessions", c.Workspace.MaxSessions)
	v.SetDefault("check.parallelism", c.Check.Parallelism)
	v.SetDefault("exactByDefault", c.ExactByDefault)
}

// Load reads the configuration of the project at root. Values in the
// environment take precedence over the config file.
func Load(root string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load(filepath.Join(root, ".env"))

	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(root, ".flowty"))
	v.SetEnvPrefix("FLOWTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return &Error{Field: "log.level", Message: err.Error()}
	}
	if c.Completion.MaxItems < 0 {
		return &Error{Field: "completion.maxItems", Message: "must not be negative"}
	}
	if c.Workspace.MaxSessions <= 0 {
		return &Error{Field: "workspace.maxSessions", Message: "must be positive"}
	}
	if c.Check.Parallelism <= 0 {
		return &Error{Field: "check.parallelism", Message: "must be positive"}
	}
	if _, err := estree.ParseOffsetStyle(c.Parser.Offsets); err != nil {
		return &Error{Field: "parser.offsets", Message: err.Error()}
	}
	return nil
}

type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.Log.Level))
	return l, err
}

// ApplyLogging sets the level and sections of the package loggers
func (c *Config) ApplyLogging() {
	if l, err := c.SlogLevel(); err == nil {
		log.SetLevel(l)
	}
	log.SetSections(c.Log.Sections...)
}

func (c *Config) SessionOptions() flowty.Options {
	return flowty.Options{
		Flow:          flow.Options{ExactByDefault: c.ExactByDefault},
		MaxItems:      c.Completion.MaxItems,
		InsertReplace: c.Completion.InsertReplace,
	}
}

// NewParser returns the configured parser command, or an error if it cannot
// be found
func (c *Config) NewParser() (*estree.CommandParser, error) {
	offsets, err := estree.ParseOffsetStyle(c.Parser.Offsets)
	if err != nil {
		return nil, err
	}
	if _, err := exec.LookPath(c.Parser.Command); err != nil {
		return nil, fmt.Errorf("parser command: %w", err)
	}
	return &estree.CommandParser{
		Command: c.Parser.Command,
		Args:    c.Parser.Args,
		Options: estree.Options{Offsets: offsets},
	}, nil
}
