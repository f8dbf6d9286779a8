// Package media mirrors remote images referenced by content into the site's
// public asset directory.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/elenayuscula/aprendenotion/internal/property"
)

type Config struct {
	Dir        string
	PublicPath string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Mirror downloads images once under a deterministic name. Existing files are
// never refreshed.
type Mirror struct {
	dir        string
	publicPath string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Mirror {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Mirror{
		dir:        cfg.Dir,
		publicPath: cfg.PublicPath,
		httpClient: client,
		logger:     logger.With("component", "media"),
	}
}

// Extension guesses the file extension from the source URL.
func Extension(sourceURL string) string {
	switch {
	case strings.Contains(sourceURL, ".png"):
		return ".png"
	case strings.Contains(sourceURL, ".gif"):
		return ".gif"
	default:
		return ".jpg"
	}
}

// Fetch stores the image at sourceURL as <name><ext> and returns its public path.
func (m *Mirror) Fetch(ctx context.Context, sourceURL, name string) (string, error) {
	filename := property.Slugify(name) + Extension(sourceURL)
	target := filepath.Join(m.dir, filename)
	public := path.Join("/", m.publicPath, filename)

	if _, err := os.Stat(target); err == nil {
		return public, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", target, err)
	}

	if err := m.download(ctx, sourceURL, target); err != nil {
		return "", err
	}

	m.logger.Debug("mirrored image", "file", filename)
	return public, nil
}

func (m *Mirror) download(ctx context.Context, sourceURL, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download image: unexpected status: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}

	tmp, err := os.CreateTemp(m.dir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write image: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod image: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("move image: %w", err)
	}
	return nil
}
