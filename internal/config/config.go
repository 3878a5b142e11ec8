// Package config loads and saves the user's mod list preferences.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/git-pkgs/modmenu/internal/catalog"
	"github.com/git-pkgs/modmenu/internal/core"
)

const (
	envPrefix = "MODMENU"
	fileName  = "modmenu.json"

	keySortingOrder  = "sortingOrder"
	keyUpdateChannel = "updateChannel"
	keyEnableUpdates = "enableUpdateChecking"
)

// file is the on-disk shape of the preferences.
type file struct {
	SortingOrder         string `json:"sortingOrder"`
	UpdateChannel        string `json:"updateChannel"`
	EnableUpdateChecking bool   `json:"enableUpdateChecking"`
}

// Loader reads preferences from a JSON file with environment overrides.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with defaults and MODMENU_* environment bindings.
func NewLoader() *Loader {
	v := viper.New()
	defaults := catalog.DefaultPreferences()
	v.SetDefault(keySortingOrder, defaults.SortOrder.String())
	v.SetDefault(keyUpdateChannel, strings.ToUpper(defaults.UpdateChannel.String()))
	v.SetDefault(keyEnableUpdates, defaults.EnableUpdateChecks)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv(keySortingOrder, "MODMENU_SORTING_ORDER")
	_ = v.BindEnv(keyUpdateChannel, "MODMENU_UPDATE_CHANNEL")
	_ = v.BindEnv(keyEnableUpdates, "MODMENU_ENABLE_UPDATE_CHECKING")

	return &Loader{v: v}
}

// DefaultPath returns the preferences file path. MODMENU_CONFIG takes
// precedence over the user config directory.
func DefaultPath() (string, error) {
	if p := os.Getenv("MODMENU_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "modmenu", fileName), nil
}

// Load reads the preferences at path, or DefaultPath when path is empty.
// A missing file yields the defaults.
func (l *Loader) Load(path string) (catalog.Preferences, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return catalog.DefaultPreferences(), fmt.Errorf("getting config path: %w", err)
		}
	}

	l.v.SetConfigFile(path)
	l.v.SetConfigType("json")
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return catalog.DefaultPreferences(), fmt.Errorf("reading config file: %w", err)
		}
	}

	prefs := catalog.DefaultPreferences()
	order, err := catalog.ParseSortOrder(l.v.GetString(keySortingOrder))
	if err != nil {
		return catalog.DefaultPreferences(), fmt.Errorf("%s: %w", keySortingOrder, err)
	}
	channel, err := core.ParseChannel(l.v.GetString(keyUpdateChannel))
	if err != nil {
		return catalog.DefaultPreferences(), fmt.Errorf("%s: %w", keyUpdateChannel, err)
	}
	prefs.SortOrder = order
	prefs.UpdateChannel = channel
	prefs.EnableUpdateChecks = l.v.GetBool(keyEnableUpdates)
	return prefs, nil
}

// Load reads preferences with a fresh Loader.
func Load(path string) (catalog.Preferences, error) {
	return NewLoader().Load(path)
}

// Save writes prefs to path, creating parent directories as needed.
func Save(path string, prefs catalog.Preferences) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return fmt.Errorf("getting config path: %w", err)
		}
	}
	data, err := json.MarshalIndent(file{
		SortingOrder:         prefs.SortOrder.String(),
		UpdateChannel:        strings.ToUpper(prefs.UpdateChannel.String()),
		EnableUpdateChecking: prefs.EnableUpdateChecks,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
