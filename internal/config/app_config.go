package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/imdario/mergo"
	yaml "github.com/jesseduffield/yaml"
)

// AppConfig contains the base configuration fields required for sdeslab.
type AppConfig struct {
	Debug      bool   `long:"debug" env:"DEBUG" default:"false"`
	Version    string `long:"version" env:"VERSION" default:"unversioned"`
	Name       string `long:"name" env:"NAME" default:"sdeslab"`
	UserConfig *UserConfig
	ConfigDir  string
}

// UserConfig holds the user-configurable options. Keys are camelCase in config.yml.
type UserConfig struct {
	// Search configures the exhaustive key search
	Search SearchConfig `yaml:"search,omitempty"`

	// Text configures text and byte encryption
	Text TextConfig `yaml:"text,omitempty"`

	// Output configures how results are printed
	Output OutputConfig `yaml:"output,omitempty"`
}

type SearchConfig struct {
	// Workers is the number of goroutines trying keys. 0 means one per CPU
	Workers int `yaml:"workers,omitempty"`

	// BatchSize is how many keys a worker tries before progress is reported
	BatchSize int `yaml:"batchSize,omitempty"`
}

type TextConfig struct {
	// Parallel splits long inputs across goroutines
	Parallel bool `yaml:"parallel,omitempty"`

	// Workers bounds the goroutines used when Parallel is set. 0 means one per CPU
	Workers int `yaml:"workers,omitempty"`
}

type OutputConfig struct {
	NoColor bool `yaml:"noColor,omitempty"`

	// HideProgress suppresses key search progress on stderr
	HideProgress bool `yaml:"hideProgress,omitempty"`
}

// GetDefaultConfig returns the application default configuration
// NOTE: do not default a boolean to true, false is the zero value and a user
// setting it to false would be ignored when merging
func GetDefaultConfig() UserConfig {
	return UserConfig{
		Search: SearchConfig{
			Workers:   0,
			BatchSize: 64,
		},
		Text: TextConfig{
			Parallel: false,
			Workers:  0,
		},
		Output: OutputConfig{
			NoColor:      false,
			HideProgress: false,
		},
	}
}

func NewAppConfig(name, version string, debuggingFlag bool) (*AppConfig, error) {
	configDir, err := findOrCreateConfigDir(name)
	if err != nil {
		return nil, err
	}

	userConfig, err := loadUserConfigWithDefaults(configDir)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(userConfig)

	appConfig := &AppConfig{
		Name:       name,
		Version:    version,
		Debug:      debuggingFlag || os.Getenv("DEBUG") == "TRUE",
		UserConfig: userConfig,
		ConfigDir:  configDir,
	}

	return appConfig, nil
}

func findOrCreateConfigDir(projectName string) (string, error) {
	folder := os.Getenv("SDES_CONFIG_DIR")
	if folder == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		folder = filepath.Join(base, projectName)
	}

	err := os.MkdirAll(folder, 0o755)
	if err != nil {
		return "", err
	}

	return folder, nil
}

func loadUserConfigWithDefaults(configDir string) (*UserConfig, error) {
	config := GetDefaultConfig()

	fileConfig, err := loadUserConfig(configDir)
	if err != nil {
		return nil, err
	}

	if err := mergo.Merge(&config, fileConfig, mergo.WithOverride); err != nil {
		return nil, err
	}

	return &config, nil
}

// loadUserConfig reads config.yml from configDir. A missing file yields an
// empty config.
func loadUserConfig(configDir string) (UserConfig, error) {
	var config UserConfig

	content, err := os.ReadFile(filepath.Join(configDir, "config.yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return config, err
	}

	return config, nil
}

func applyEnvOverrides(config *UserConfig) {
	config.Search.Workers = getEnvInt("SDES_WORKERS", config.Search.Workers)
	config.Search.BatchSize = getEnvInt("SDES_BATCH_SIZE", config.Search.BatchSize)
	config.Text.Workers = getEnvInt("SDES_TEXT_WORKERS", config.Text.Workers)
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// WriteToUserConfig applies updateConfig to the file-level config and saves
// it. Zero values are dropped by omitempty.
func (c *AppConfig) WriteToUserConfig(updateConfig func(*UserConfig) error) error {
	userConfig, err := loadUserConfig(c.ConfigDir)
	if err != nil {
		return err
	}

	if err := updateConfig(&userConfig); err != nil {
		return err
	}

	content, err := yaml.Marshal(userConfig)
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.ConfigFilename(), content, 0o644); err != nil {
		return err
	}

	merged, err := loadUserConfigWithDefaults(c.ConfigDir)
	if err != nil {
		return err
	}
	applyEnvOverrides(merged)
	c.UserConfig = merged

	return nil
}

func (c *AppConfig) ConfigFilename() string {
	return filepath.Join(c.ConfigDir, "config.yml")
}
