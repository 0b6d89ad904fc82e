package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/create-app/internal/model"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "CREATE_APP"

// Config is the complete create-app configuration.
type Config struct {
	Template       TemplateConfig       `mapstructure:"template"`
	PackageManager PackageManagerConfig `mapstructure:"package_manager"`
	Runtime        RuntimeConfig        `mapstructure:"runtime"`
	Git            GitConfig            `mapstructure:"git"`
	Log            LogConfig            `mapstructure:"log"`
}

// TemplateConfig locates the template repository. Each locator feeds one
// fetch mechanism; an empty locator disables that mechanism.
type TemplateConfig struct {
	// SSH is the SSH-style clone URL, tried first.
	SSH string `mapstructure:"ssh"`

	// Repo is the owner/repository identifier handed to the gh CLI.
	Repo string `mapstructure:"repo"`

	// HTTPS is the HTTPS clone URL, tried last.
	HTTPS string `mapstructure:"https"`

	// Ref is the branch or tag to clone.
	Ref string `mapstructure:"ref"`
}

// PackageManagerConfig controls package manager selection.
type PackageManagerConfig struct {
	// Default is used when no lockfile is detected and no choice is made.
	Default string `mapstructure:"default"`
}

// RuntimeConfig holds the Node.js runtime requirement.
type RuntimeConfig struct {
	MinNodeMajor uint64 `mapstructure:"min_node_major"`
}

// GitConfig controls the repository reinitialization step.
type GitConfig struct {
	Reinit        bool   `mapstructure:"reinit"`
	CommitMessage string `mapstructure:"commit_message"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// defaults is the built-in configuration.
var defaults = map[string]any{
	"template.ssh":            "git@github.com:tuyenpham2502/react-base.git",
	"template.repo":           "tuyenpham2502/react-base",
	"template.https":          "https://github.com/tuyenpham2502/react-base.git",
	"template.ref":            "main",
	"package_manager.default": string(model.NPM),
	"runtime.min_node_major":  18,
	"git.reinit":              true,
	"git.commit_message":      "Initial commit",
	"log.level":               "warn",
}

// Load builds the configuration from defaults, the YAML file at path (if
// it exists) and CREATE_APP_* environment variables. An empty path skips
// the file layer. Unknown keys in the file are rejected.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	fileValues, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if fileValues != nil {
		if mergeErr := v.MergeConfigMap(fileValues); mergeErr != nil {
			return nil, fmt.Errorf("failed to merge config file %s: %w", path, mergeErr)
		}
	}

	// Nested keys map to underscores: template.ref -> CREATE_APP_TEMPLATE_REF.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// readFile decodes the YAML config file into a generic map. A missing file
// is not an error.
func readFile(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return values, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if _, err := model.ParsePackageManager(c.PackageManager.Default); err != nil {
		return fmt.Errorf("package_manager.default: %w", err)
	}
	if c.Template.SSH == "" && c.Template.Repo == "" && c.Template.HTTPS == "" {
		return fmt.Errorf("template: at least one of ssh, repo or https must be set")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// DefaultPackageManager returns the validated global default manager.
func (c *Config) DefaultPackageManager() model.PackageManager {
	pm, err := model.ParsePackageManager(c.PackageManager.Default)
	if err != nil {
		return model.NPM
	}
	return pm
}

// LogLevel returns the validated logrus level.
func (c *Config) LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}
