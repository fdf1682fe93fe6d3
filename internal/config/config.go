// Package config loads circusagent settings from an optional YAML file with
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/enrichment"
	"github.com/alexanderramin/circusagent/internal/mail"
)

const envPrefix = "CIRCUSAGENT_"

type PersonaConfig struct {
	Name      string `yaml:"name"`
	Company   string `yaml:"company"`
	Show      string `yaml:"show"`
	Website   string `yaml:"website"`
	Signature string `yaml:"signature"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	TLS      string `yaml:"tls"`
}

type Config struct {
	DBPath            string        `yaml:"db_path"`
	LogLevel          string        `yaml:"log_level"`
	CycleCutoffMonth  int           `yaml:"cycle_cutoff_month"`
	EnrichConcurrency int           `yaml:"enrich_concurrency"`
	SearchEnabled     bool          `yaml:"search"`
	Persona           PersonaConfig `yaml:"persona"`
	SMTP              SMTPConfig    `yaml:"smtp"`
}

// Default returns the built-in settings. home anchors the database path.
func Default(home string) Config {
	return Config{
		DBPath:            filepath.Join(home, ".circusagent", "circusagent.db"),
		LogLevel:          "info",
		CycleCutoffMonth:  int(domain.DefaultCutoffMonth),
		EnrichConcurrency: enrichment.DefaultConcurrency,
		SMTP:              SMTPConfig{Port: 587, TLS: "mandatory"},
	}
}

// Path returns the config file location: $CIRCUSAGENT_CONFIG or
// ~/.circusagent/config.yaml.
func Path(home string) string {
	if p := os.Getenv(envPrefix + "CONFIG"); p != "" {
		return p
	}
	return filepath.Join(home, ".circusagent", "config.yaml")
}

// Load reads the config file if present, then applies env overrides. A
// missing file is not an error.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	cfg := Default(home)

	path := Path(home)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode rejects unknown keys so typos in the file surface.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"DB":                &cfg.DBPath,
		"LOG_LEVEL":         &cfg.LogLevel,
		"SMTP_HOST":         &cfg.SMTP.Host,
		"SMTP_USERNAME":     &cfg.SMTP.Username,
		"SMTP_PASSWORD":     &cfg.SMTP.Password,
		"SMTP_FROM":         &cfg.SMTP.From,
		"SMTP_TLS":          &cfg.SMTP.TLS,
		"PERSONA_NAME":      &cfg.Persona.Name,
		"PERSONA_COMPANY":   &cfg.Persona.Company,
		"PERSONA_SHOW":      &cfg.Persona.Show,
		"PERSONA_WEBSITE":   &cfg.Persona.Website,
		"PERSONA_SIGNATURE": &cfg.Persona.Signature,
	}
	for name, dst := range str {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CYCLE_CUTOFF_MONTH": &cfg.CycleCutoffMonth,
		"SMTP_PORT":          &cfg.SMTP.Port,
		"ENRICH_CONCURRENCY": &cfg.EnrichConcurrency,
	}
	for name, dst := range ints {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %q is not a number", envPrefix, name, v)
		}
		*dst = n
	}

	if v := os.Getenv(envPrefix + "SEARCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSEARCH: %q is not a boolean", envPrefix, v)
		}
		cfg.SearchEnabled = b
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path is required")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.CyclePolicy().Validate(); err != nil {
		return err
	}
	if c.EnrichConcurrency < 1 {
		return fmt.Errorf("enrich_concurrency must be at least 1, got %d", c.EnrichConcurrency)
	}
	switch c.SMTP.TLS {
	case "mandatory", "opportunistic", "none":
	default:
		return fmt.Errorf("smtp.tls must be mandatory, opportunistic or none, got %q", c.SMTP.TLS)
	}
	return nil
}

// SlogLevel maps LogLevel onto slog. Validate has already checked it.
func (c Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log_level must be debug, info, warn or error, got %q", s)
}

func (c Config) CyclePolicy() domain.CyclePolicy {
	return domain.CyclePolicy{CutoffMonth: time.Month(c.CycleCutoffMonth)}
}

func (c Config) Mail() mail.SMTPConfig {
	return mail.SMTPConfig(c.SMTP)
}

func (c Config) PersonaValue() enrichment.Persona {
	return enrichment.Persona(c.Persona)
}
