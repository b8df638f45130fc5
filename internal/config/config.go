package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile is a named set of toggles that can be applied with --profile.
type Profile struct {
	NoMerge        *bool `yaml:"noMerge"`
	NoSkip         *bool `yaml:"noSkip"`
	PartsTimecodes *bool `yaml:"partsTimecodes"`
}

type Config struct {
	MkvmergeBin string `yaml:"mkvmergeBin"`
	ControlFile string `yaml:"controlFile"`

	NoMerge        bool `yaml:"noMerge"`
	NoSkip         bool `yaml:"noSkip"`
	PartsTimecodes bool `yaml:"partsTimecodes"`

	// AlwaysRebuildLast keeps the last target of a plan out of the
	// skip-existing check.
	AlwaysRebuildLast bool `yaml:"alwaysRebuildLast"`
	// Exit codes of mkvmerge that only mean "finished with warnings".
	SplitWarnCodes []int `yaml:"splitWarnCodes"`
	MergeWarnCodes []int `yaml:"mergeWarnCodes"`

	LogFile         string             `yaml:"logFile"`
	DryRun          bool               `yaml:"dryRun"`
	WatchDebounceMs int                `yaml:"watchDebounceMs"`
	Profiles        map[string]Profile `yaml:"profiles"`
}

func NewDefault() *Config {
	return &Config{
		MkvmergeBin:       "mkvmerge",
		ControlFile:       "quickcut.csv",
		AlwaysRebuildLast: true,
		MergeWarnCodes:    []int{1},
		WatchDebounceMs:   500,
	}
}

// Path returns the location of the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "quickcut", "config.yaml"), nil
}

func Load() (*Config, error) {
	cfg := NewDefault()

	configPath, err := Path()
	if err != nil {
		return cfg, nil // ホームディレクトリが取れなくてもデフォルトで進む
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return cfg, nil
}

// ApplyProfile overrides the toggles set in the named profile.
func (c *Config) ApplyProfile(name string) bool {
	p, ok := c.Profiles[name]
	if !ok {
		return false
	}
	if p.NoMerge != nil {
		c.NoMerge = *p.NoMerge
	}
	if p.NoSkip != nil {
		c.NoSkip = *p.NoSkip
	}
	if p.PartsTimecodes != nil {
		c.PartsTimecodes = *p.PartsTimecodes
	}
	return true
}
