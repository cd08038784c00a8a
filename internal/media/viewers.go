package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/blogr/internal/debuglog"
)

//go:embed viewers.toml
var viewersTOML []byte

// ViewerDefinition defines how an image viewer should be invoked
type ViewerDefinition struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	Command     string   `toml:"command,omitempty"`
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

// ViewersConfig holds all viewer definitions
type ViewersConfig struct {
	Viewers map[string]ViewerDefinition `toml:"viewers"`
}

// ViewerRegistry manages viewer definitions
type ViewerRegistry struct {
	viewers map[string]ViewerDefinition
	goos    string
}

// NewViewerRegistry creates a registry from the embedded TOML, overlaid
// with ~/.config/blogr/viewers.toml when present.
func NewViewerRegistry() (*ViewerRegistry, error) {
	r, err := parseViewers(viewersTOML)
	if err != nil {
		return nil, err
	}

	if home, err := os.UserHomeDir(); err == nil {
		r.loadUserConfig(filepath.Join(home, ".config", "blogr", "viewers.toml"))
	}
	return r, nil
}

func parseViewers(data []byte) (*ViewerRegistry, error) {
	var cfg ViewersConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing viewers.toml: %w", err)
	}
	if cfg.Viewers == nil {
		cfg.Viewers = make(map[string]ViewerDefinition)
	}
	return &ViewerRegistry{viewers: cfg.Viewers, goos: runtime.GOOS}, nil
}

// loadUserConfig merges user definitions over the built-in ones
func (r *ViewerRegistry) loadUserConfig(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var user ViewersConfig
	if err := toml.Unmarshal(data, &user); err != nil {
		debuglog.Warnf("ignoring %s: %v", path, err)
		return
	}
	for name, def := range user.Viewers {
		r.viewers[name] = def
	}
}

// Command builds the command that opens url with viewer. Unknown viewers
// are run with the URL as their only argument.
func (r *ViewerRegistry) Command(viewer, url string) (*exec.Cmd, error) {
	def, ok := r.viewers[viewer]
	if !ok {
		return exec.Command(viewer, url), nil
	}

	if !slices.Contains(def.Platforms, r.goos) {
		return nil, fmt.Errorf("%s not supported on %s", viewer, r.goos)
	}

	name := viewer
	if def.Command != "" {
		name = def.Command
	}
	args := append(slices.Clone(r.args(def)), url)
	return exec.Command(name, args...), nil
}

// args returns the appropriate args for the current platform
func (r *ViewerRegistry) args(def ViewerDefinition) []string {
	switch r.goos {
	case "darwin":
		if len(def.ArgsDarwin) > 0 {
			return def.ArgsDarwin
		}
	case "linux":
		if len(def.ArgsLinux) > 0 {
			return def.ArgsLinux
		}
	case "windows":
		if len(def.ArgsWindows) > 0 {
			return def.ArgsWindows
		}
	}
	return def.Args
}
