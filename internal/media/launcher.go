// Package media opens article cover images in a desktop viewer.
package media

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/blogr/internal/article"
	"github.com/pders01/blogr/internal/config"
	"github.com/pders01/blogr/internal/debuglog"
	"github.com/pders01/blogr/internal/validation"
)

// ErrNoCover is returned when an article only has the placeholder cover.
var ErrNoCover = errors.New("article has no cover image")

// Launcher resolves cover images and starts a viewer for them.
type Launcher struct {
	viewer      string
	placeholder string
	registry    *ViewerRegistry
	images      *validation.URLValidator

	// start runs the viewer; tests replace it
	start func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewViewerRegistry()
	if err != nil {
		debuglog.Warnf("viewer definitions unavailable: %v", err)
		registry = &ViewerRegistry{viewers: make(map[string]ViewerDefinition), goos: runtime.GOOS}
	}

	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = cfg.Media.Darwin
	case "windows":
		candidates = cfg.Media.Windows
	default:
		candidates = cfg.Media.Linux
	}

	viewer := findCommand(candidates...)
	if viewer == "" {
		viewer = cfg.Media.DefaultOpener
	}

	return &Launcher{
		viewer:      viewer,
		placeholder: cfg.UI.Article.PlaceholderImage,
		registry:    registry,
		images:      validation.NewImageValidator(),
		start:       startDetached,
	}
}

// CoverURL returns the article's cover image, or the placeholder when the
// image is missing or not an absolute http(s) URL.
func (l *Launcher) CoverURL(a article.Article) string {
	img := strings.TrimSpace(a.Image)
	if img == "" {
		return l.placeholder
	}
	normalized, err := l.images.ValidateAndNormalize(img)
	if err != nil {
		debuglog.WithFields(debuglog.Fields{"id": a.ID}).Debugf("cover image rejected: %v", err)
		return l.placeholder
	}
	return normalized
}

// HasCover reports whether CoverURL would return a real image.
func (l *Launcher) HasCover(a article.Article) bool {
	return l.CoverURL(a) != l.placeholder
}

// Viewer is the command used to open images.
func (l *Launcher) Viewer() string {
	return l.viewer
}

// OpenCover starts the viewer on the article's cover image without
// waiting for it to exit.
func (l *Launcher) OpenCover(a article.Article) error {
	if !l.HasCover(a) {
		return ErrNoCover
	}
	return l.Open(l.CoverURL(a))
}

// Open starts the viewer on url.
func (l *Launcher) Open(url string) error {
	if l.viewer == "" {
		return fmt.Errorf("no application found to open images")
	}

	cmd, err := l.registry.Command(l.viewer, url)
	if err != nil {
		debuglog.Warnf("viewer definition not usable, running plain: %v", err)
		cmd = exec.Command(l.viewer, url)
	}

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.viewer, err)
	}
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
