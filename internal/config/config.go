// Package config loads the settings shared by every supers command.
//
// Settings come, by increasing precedence, from Default, a YAML file, a .env
// file in the working directory and SUPERS_* environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cottand/supers/hierarchy"
	"github.com/cottand/supers/internal/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log struct {
		Level    int      `yaml:"level"`
		Sections []string `yaml:"sections"`
	} `yaml:"log"`
	Resolver struct {
		CancelCheckInterval int  `yaml:"cancel_check_interval"`
		Cache               bool `yaml:"cache"`
	} `yaml:"resolver"`
	Scope struct {
		// Origins are the visible declaration origins, earlier ones win name clashes.
		// Empty means every origin is visible.
		Origins []string `yaml:"origins"`
	} `yaml:"scope"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Log.Level = int(slog.LevelWarn)
	cfg.Log.Sections = []string{"resolver", "decl"}
	cfg.Resolver.CancelCheckInterval = 64
	cfg.Resolver.Cache = true
	return cfg
}

// Load reads the YAML file at path on top of Default. An empty path skips the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "could not read config")
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, errors.Wrapf(err, "could not parse config %s", path)
		}
	}
	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overrideFromEnv() error {
	if level := os.Getenv("SUPERS_LOG_LEVEL"); level != "" {
		n, err := strconv.Atoi(level)
		if err != nil {
			return errors.Wrap(err, "SUPERS_LOG_LEVEL")
		}
		c.Log.Level = n
	}
	if sections := os.Getenv("SUPERS_LOG_SECTIONS"); sections != "" {
		c.Log.Sections = splitList(sections)
	}
	if interval := os.Getenv("SUPERS_RESOLVER_CANCEL_CHECK_INTERVAL"); interval != "" {
		n, err := strconv.Atoi(interval)
		if err != nil {
			return errors.Wrap(err, "SUPERS_RESOLVER_CANCEL_CHECK_INTERVAL")
		}
		c.Resolver.CancelCheckInterval = n
	}
	if cache := os.Getenv("SUPERS_RESOLVER_CACHE"); cache != "" {
		b, err := strconv.ParseBool(cache)
		if err != nil {
			return errors.Wrap(err, "SUPERS_RESOLVER_CACHE")
		}
		c.Resolver.Cache = b
	}
	if origins := os.Getenv("SUPERS_SCOPE_ORIGINS"); origins != "" {
		c.Scope.Origins = splitList(origins)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ApplyLogging sets the level and sections of log.DefaultLogger
func (c *Config) ApplyLogging() {
	log.SetLevel(slog.Level(c.Log.Level))
	log.EnableSections(c.Log.Sections...)
}

// HierarchyScope is the scope queries run in
func (c *Config) HierarchyScope() hierarchy.Scope {
	if len(c.Scope.Origins) == 0 {
		return hierarchy.AllScope
	}
	return hierarchy.NewOriginScope(c.Scope.Origins...)
}

func (c *Config) ResolverOptions() []hierarchy.Option {
	opts := []hierarchy.Option{hierarchy.WithCancelCheckInterval(c.Resolver.CancelCheckInterval)}
	if !c.Resolver.Cache {
		opts = append(opts, hierarchy.WithoutCache())
	}
	return opts
}
