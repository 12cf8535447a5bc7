package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/mkarczewski/keysheet"
	"gopkg.in/yaml.v3"
)

// appName names the config and data directories.
const appName = "keysheet"

// Duration decodes "1s"-style YAML values into a time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"500ms\" or \"2s\"")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// FileConfig mirrors the YAML config file. Every field is optional; unset
// fields fall through to the built-in defaults.
type FileConfig struct {
	Engines          []string  `yaml:"engines"`
	MaxPerEngine     *int      `yaml:"max_per_engine"`
	Delay            *Duration `yaml:"delay"`
	FailureThreshold *int      `yaml:"failure_threshold"`
	QueryTimeout     *Duration `yaml:"query_timeout"`
	StarveTimeout    *Duration `yaml:"starve_timeout"`
	ShutdownGrace    *Duration `yaml:"shutdown_grace"`

	Proxy struct {
		Type string   `yaml:"type"`
		File string   `yaml:"file"`
		List []string `yaml:"list"`
	} `yaml:"proxy"`

	Tor struct {
		Socks    string `yaml:"socks"`
		Control  string `yaml:"control"`
		Password string `yaml:"password"`
	} `yaml:"tor"`

	Output   string `yaml:"output"`
	Database string `yaml:"database"`
}

// DefaultConfigPath is where the config file lives unless --config is given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yml")
}

// DefaultDBPath is where the keyword database lives unless overridden.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, appName, "keysheet.db")
}

// LoadFileConfig reads the YAML config at path. A missing file is not an
// error unless explicit is true (the user named the path themselves).
func LoadFileConfig(path string, explicit bool) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &FileConfig{}, nil
		}
		if os.IsNotExist(err) {
			return nil, keysheet.Errorf(keysheet.ENOTFOUND, "Config file %s does not exist.", path)
		}
		return nil, keysheet.Errorf(keysheet.EINTERNAL, "reading %s: %v", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, keysheet.Errorf(keysheet.EINVALID, "Invalid config file %s: %v.", path, err)
	}
	return &fc, nil
}
