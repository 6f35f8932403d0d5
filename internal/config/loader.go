package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Discord
	if cfg.Discord.Token == "" {
		errs = append(errs, errors.New("discord.token is required"))
	}
	if cfg.Discord.GuildID == "" {
		slog.Warn("discord.guild_id is empty; commands will be registered globally and can take up to an hour to appear")
	}

	// SRD
	if cfg.SRD.DataDir == "" {
		errs = append(errs, errors.New("srd.data_dir is required"))
	}
	if cfg.SRD.SearchLimit < 0 {
		errs = append(errs, fmt.Errorf("srd.search_limit %d is negative", cfg.SRD.SearchLimit))
	}
	if cfg.SRD.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("srd.cache_size %d is negative", cfg.SRD.CacheSize))
	}
	if cfg.SRD.SuggestThreshold < 0 || cfg.SRD.SuggestThreshold > 1 {
		errs = append(errs, fmt.Errorf("srd.suggest_threshold %.2f is out of range [0, 1]", cfg.SRD.SuggestThreshold))
	}

	// Namegen — the generator commands degrade when files are missing,
	// so this is a warning rather than an error.
	ng := cfg.Namegen
	if ng.TablesFile == "" {
		slog.Warn("namegen.tables_file is empty; /generate name will be unavailable")
	}
	if (ng.BondsFile == "") != (ng.FlawsFile == "") {
		errs = append(errs, errors.New("namegen.bonds_file and namegen.flaws_file must be set together"))
	}
	if ng.BondsFile == "" && ng.FlawsFile == "" {
		slog.Warn("namegen bond/flaw lists are empty; /generate bond and /generate flaw will be unavailable")
	}

	// Database
	if cfg.Database.DSN == "" {
		slog.Warn("database.dsn is empty; guild settings will not persist across restarts")
	}

	return errors.Join(errs...)
}
