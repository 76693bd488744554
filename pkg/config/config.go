// Package config loads weft's layered configuration: embedded defaults,
// optionally overridden by a weft.toml in the working directory or an
// explicit path.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/weft/pkg/errors"
)

//go:embed defaults.toml
var defaultConfig []byte

// Config is the effective configuration after layering
type Config struct {
	Attributes AttributesConfig `koanf:"attributes"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// AttributesConfig names the declarative attributes the orchestrator
// recognizes.
type AttributesConfig struct {
	// Marker lists the comma-separated feature names to attach
	Marker string `koanf:"marker"`

	// Ignore lists the comma-separated feature names to suppress
	Ignore string `koanf:"ignore"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Verbosity int `koanf:"verbosity"`
}

// rawBytesProvider feeds embedded bytes to koanf
type rawBytesProvider struct {
	bytes []byte
}

func (p *rawBytesProvider) ReadBytes() ([]byte, error) {
	return p.bytes, nil
}

func (p *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("rawbytes provider does not support Read")
}

// Load builds the effective configuration. With an empty path it probes
// for .weft.toml then weft.toml in the working directory; a missing file
// is fine, the defaults stand.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default config")
	}

	explicit := path != ""
	if !explicit {
		for _, candidate := range []string{".weft.toml", "weft.toml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse config")
	}
	return &cfg, nil
}

// Default returns the embedded defaults without probing the filesystem
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	return &cfg
}
