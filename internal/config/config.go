// Package config loads ormjoin settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	Database Database `yaml:"database"`
	Seed     Seed     `yaml:"seed"`
}

// Database selects the store. Path is used for SQLite when DSN is empty.
// MySQL DSNs need parseTime=true so timestamps scan into time.Time.
type Database struct {
	Dialect string `yaml:"dialect"`
	DSN     string `yaml:"dsn"`
	Path    string `yaml:"path"`
}

// Seed tunes the sample data.
type Seed struct {
	Users      int    `yaml:"users"`
	Posts      int    `yaml:"posts"`
	AuthorIDs  int    `yaml:"author_ids"`
	Password   string `yaml:"password"`
	BcryptCost int    `yaml:"bcrypt_cost"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Database: Database{
			Dialect: "sqlite",
			Path:    "ormjoin.db",
		},
		Seed: Seed{
			Users:     10,
			Posts:     30,
			AuthorIDs: 10,
		},
	}
}

// Load reads the YAML file at path on top of Default. An empty path
// returns Default unchanged.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Database.Dialect {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("invalid dialect %q: must be one of sqlite, mysql, postgres", c.Database.Dialect)
	}
	if c.Database.Dialect != "sqlite" && c.Database.DSN == "" {
		return fmt.Errorf("dialect %s requires a dsn", c.Database.Dialect)
	}
	if c.Database.Dialect == "sqlite" && c.Database.DSN == "" && c.Database.Path == "" {
		return errors.New("sqlite requires a path or dsn")
	}
	if c.Seed.Users < 0 || c.Seed.Posts < 0 {
		return fmt.Errorf("seed counts must not be negative (users=%d, posts=%d)", c.Seed.Users, c.Seed.Posts)
	}
	if c.Seed.AuthorIDs < 1 {
		return fmt.Errorf("seed.author_ids must be at least 1, got %d", c.Seed.AuthorIDs)
	}
	if c.Seed.BcryptCost != 0 && (c.Seed.BcryptCost < 4 || c.Seed.BcryptCost > 31) {
		return fmt.Errorf("seed.bcrypt_cost must be 0 or between 4 and 31, got %d", c.Seed.BcryptCost)
	}
	return nil
}
