package commands

import (
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/hay-kot/chatlens/internal/backend"
	"github.com/hay-kot/chatlens/internal/core/config"
	"github.com/hay-kot/chatlens/internal/core/credentials"
	"github.com/hay-kot/chatlens/internal/render"
	"github.com/hay-kot/chatlens/internal/workspace"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Populated in the Before hook and available to all commands.
	Config      *config.Config
	Credentials credentials.Store
	Client      *backend.Client
	Service     *workspace.Service
}

// RenderOptions returns the display options from the loaded config.
// Colour is enabled only when stdout is a terminal.
func (f *Flags) RenderOptions() render.Options {
	opts := render.Options{Color: isTerminal(os.Stdout)}
	if f.Config != nil {
		opts.Location = f.Config.Location()
		opts.TimeFormat = f.Config.Display.TimeFormat
	}
	return opts
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "chatlens", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "chatlens")
}
