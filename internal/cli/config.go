package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/rodlayout/internal/paths"
	"github.com/mesh-intelligence/rodlayout/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyLibrary  = "library"
	cfgKeyRedraw   = "redraw"
	cfgKeyLogLevel = "log_level"

	defaultLibrary = "rodlayout"
	defaultView    = "layout"
)

// settings is the resolved content of config.yaml.
type settings struct {
	ConfigDir string `yaml:"-"`
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir,omitempty"`
	Library   string `yaml:"library"`
	Redraw    bool   `yaml:"redraw"`
	LogLevel  string `yaml:"log_level,omitempty"`
}

// loadConfig reads config.yaml from configDir. A missing directory or file
// yields the defaults. RODLAYOUT_LIBRARY and RODLAYOUT_REDRAW override the
// file.
func loadConfig(configDir string) (settings, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLibrary, defaultLibrary)
	v.SetDefault(cfgKeyRedraw, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("RODLAYOUT")
	if err := v.BindEnv(cfgKeyLibrary); err != nil {
		return settings{}, err
	}
	if err := v.BindEnv(cfgKeyRedraw); err != nil {
		return settings{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	return settings{
		Backend:  v.GetString(cfgKeyBackend),
		DataDir:  v.GetString(cfgKeyDataDir),
		Library:  v.GetString(cfgKeyLibrary),
		Redraw:   v.GetBool(cfgKeyRedraw),
		LogLevel: v.GetString(cfgKeyLogLevel),
	}, nil
}

// writeConfigIfMissing writes s to config.yaml in configDir unless the file
// exists. It reports whether a file was written.
func writeConfigIfMissing(configDir string, s settings) (bool, error) {
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# rodlayout configuration\n")
	return true, os.WriteFile(path, append(header, data...), 0o644)
}
