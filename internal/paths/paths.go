// Package paths locates the rodlayout configuration and layout database
// directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "rodlayout"

// ConfigFileName is the viper config file looked up in the config directory.
const ConfigFileName = "config.yaml"

// Environment variables overriding the directories.
const (
	EnvConfigDir = "RODLAYOUT_CONFIG_DIR"
	EnvDataDir   = "RODLAYOUT_DATA_DIR"
)

// ProjectDirName marks a project-local workspace. When present in the
// working directory it is used for both config and data.
const ProjectDirName = ".rodlayout"

// platform is swapped out in tests.
var platform = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the per-user configuration directory.
//
//	linux:   $XDG_CONFIG_HOME/rodlayout, else ~/.config/rodlayout
//	darwin:  ~/Library/Application Support/rodlayout
//	windows: %AppData%/rodlayout
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the per-user directory holding layout.db.
//
//	linux:   $XDG_DATA_HOME/rodlayout, else ~/.local/share/rodlayout
//	darwin, windows: <user config dir>/rodlayout/data
func DefaultDataDir() (string, error) {
	if platform.goos != "linux" {
		dir, err := platform.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName, "data"), nil
	}
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if platform.goos != "linux" {
		dir, err := platform.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platform.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

// projectDir returns ./.rodlayout when it exists.
func projectDir() (string, bool) {
	cwd, err := platform.getwd()
	if err != nil {
		return "", false
	}
	dir := filepath.Join(cwd, ProjectDirName)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, true
	}
	return "", false
}

// ResolveConfigDir picks the configuration directory:
// flag, then RODLAYOUT_CONFIG_DIR, then ./.rodlayout, then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	if dir, ok := projectDir(); ok {
		return dir, nil
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory: flag, then the data_dir config
// value, then RODLAYOUT_DATA_DIR, then ./.rodlayout/data, then
// DefaultDataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, dir := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	if dir, ok := projectDir(); ok {
		return filepath.Join(dir, "data"), nil
	}
	return DefaultDataDir()
}

// ConfigFile returns the config file path inside dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}
