// Package config loads argolint settings from defaults, an optional YAML
// config file, ARGOLINT_* environment variables and command-line flags, in
// increasing order of precedence, and validates the result against an
// embedded JSON schema.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/githubnext/argolint/pkg/constants"
	"github.com/githubnext/argolint/pkg/logger"
)

var log = logger.New("config:config")

// Config holds every setting of a run.
type Config struct {
	Cache  CacheConfig  `mapstructure:"cache"`
	Tools  ToolsConfig  `mapstructure:"tools"`
	DryRun DryRunConfig `mapstructure:"dryrun"`
	Output OutputConfig `mapstructure:"output"`
	Jobs   int          `mapstructure:"jobs"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// CacheConfig locates the repository cache.
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// ToolsConfig names the external binaries and bounds each invocation.
type ToolsConfig struct {
	Git     string        `mapstructure:"git"`
	Helm    string        `mapstructure:"helm"`
	Kubectl string        `mapstructure:"kubectl"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DryRunConfig selects how kubectl apply validates rendered manifests.
type DryRunConfig struct {
	Mode    string `mapstructure:"mode"`
	Context string `mapstructure:"context"`
}

// OutputConfig selects the report format.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// FlagBindings maps config keys to the command-line flags that override them.
var FlagBindings = map[string]string{
	"cache.dir":      "cache-dir",
	"tools.timeout":  "timeout",
	"dryrun.mode":    "dry-run",
	"dryrun.context": "kube-context",
	"output.format":  "output",
	"jobs":           "jobs",
}

// DefaultCacheDir returns the per-user cache location for repository clones.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, constants.CLIName, "repositories")
}

// Load builds the configuration. configFile, when set, must exist; otherwise
// .argolint.yaml is looked up in the working directory and in the user config
// directory. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("cache.dir", DefaultCacheDir())
	v.SetDefault("tools.git", "git")
	v.SetDefault("tools.helm", "helm")
	v.SetDefault("tools.kubectl", "kubectl")
	v.SetDefault("tools.timeout", constants.DefaultToolTimeout)
	v.SetDefault("dryrun.mode", "client")
	v.SetDefault("dryrun.context", "")
	v.SetDefault("output.format", "text")
	v.SetDefault("jobs", 1)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(constants.ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, constants.CLIName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range FlagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if cfg.Cache.Dir != "" {
		abs, err := filepath.Abs(cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("invalid cache directory %s: %w", cfg.Cache.Dir, err)
		}
		cfg.Cache.Dir = abs
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	log.Printf("Loaded config: file=%q cache=%s jobs=%d format=%s dryrun=%s timeout=%s",
		cfg.File, cfg.Cache.Dir, cfg.Jobs, cfg.Output.Format, cfg.DryRun.Mode, cfg.Tools.Timeout)
	return &cfg, nil
}
