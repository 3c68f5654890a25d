/*
Package config manages TOML config for topserve.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/topserve/internal/utils"
	"github.com/charmbracelet/log"
)

// AppName names the config directory.
const AppName = "topserve"

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Corpus CorpusConfig `toml:"corpus"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MinPrompt int  `toml:"min_prompt"`
	MaxPrompt int  `toml:"max_prompt"`
	Reload    bool `toml:"reload"`
}

// CorpusConfig holds corpus options.
type CorpusConfig struct {
	Path     string `toml:"path"`
	Alphabet string `toml:"alphabet"`
	Encoding string `toml:"encoding"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	FoldCase  bool `toml:"fold_case"`
	Verify    bool `toml:"verify"`
	ShowCount bool `toml:"show_count"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", AppName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/topserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MinPrompt: 0,
			MaxPrompt: 60,
			Reload:    true,
		},
		Corpus: CorpusConfig{
			Path:     "",
			Alphabet: "abcdefghijklmnopqrstuvwxyz",
			Encoding: "utf-8",
		},
		CLI: CliConfig{
			FoldCase:  false,
			Verify:    false,
			ShowCount: true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps whatever sections of a broken TOML file still decode
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if corpusSection, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		extractCorpusConfig(corpusSection, &config.Corpus)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "min_prompt"); ok {
		server.MinPrompt = val
	}
	if val, ok := utils.ExtractInt64(data, "max_prompt"); ok {
		server.MaxPrompt = val
	}
	if val, ok := utils.ExtractBool(data, "reload"); ok {
		server.Reload = val
	}
}

func extractCorpusConfig(data map[string]any, corpus *CorpusConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		corpus.Path = val
	}
	if val, ok := utils.ExtractString(data, "alphabet"); ok {
		corpus.Alphabet = val
	}
	if val, ok := utils.ExtractString(data, "encoding"); ok {
		corpus.Encoding = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "fold_case"); ok {
		cli.FoldCase = val
	}
	if val, ok := utils.ExtractBool(data, "verify"); ok {
		cli.Verify = val
	}
	if val, ok := utils.ExtractBool(data, "show_count"); ok {
		cli.ShowCount = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return "", err
	}
	return defaultPath, utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server limits and saves to file.
// Nil arguments keep their current value. With an empty configPath the
// change stays in memory. Invalid limits leave c untouched.
func (c *Config) Update(configPath string, minPrompt, maxPrompt *int, reload *bool) error {
	server := c.Server
	if minPrompt != nil {
		server.MinPrompt = *minPrompt
	}
	if maxPrompt != nil {
		server.MaxPrompt = *maxPrompt
	}
	if reload != nil {
		server.Reload = *reload
	}
	if err := server.validate(); err != nil {
		return err
	}

	c.Server = server
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}

// validate checks the prompt limits. A zero MaxPrompt means unlimited.
func (s ServerConfig) validate() error {
	if s.MinPrompt < 0 || s.MaxPrompt < 0 {
		return fmt.Errorf("prompt limits must not be negative (min %d, max %d)", s.MinPrompt, s.MaxPrompt)
	}
	if s.MaxPrompt > 0 && s.MinPrompt > s.MaxPrompt {
		return fmt.Errorf("min prompt %d exceeds max prompt %d", s.MinPrompt, s.MaxPrompt)
	}
	return nil
}
