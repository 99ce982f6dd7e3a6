package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultCacheDir holds downloaded annotation files.
const DefaultCacheDir = "~/.cache/annotcheck"

// DownloadConfig configures remote document fetching
type DownloadConfig struct {
	CacheDir      string
	ForceDownload bool
	Token         string // sent as a bearer token when set
	Client        *http.Client
}

// Downloader fetches annotation documents over HTTP and caches them on disk
type Downloader struct {
	config DownloadConfig
}

// NewDownloader creates a new downloader
func NewDownloader(config DownloadConfig) *Downloader {
	if config.CacheDir == "" {
		config.CacheDir = DefaultCacheDir
	}

	// Expand ~ to home directory
	if strings.HasPrefix(config.CacheDir, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			config.CacheDir = filepath.Join(homeDir, config.CacheDir[1:])
		}
	}

	if config.Client == nil {
		config.Client = http.DefaultClient
	}

	return &Downloader{
		config: config,
	}
}

// CachePath returns where rawURL is cached. The file keeps the URL's base
// name so the loader can pick a decoder by extension.
func (d *Downloader) CachePath(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	name := "document.json"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			name = base
		}
	}
	return filepath.Join(d.config.CacheDir, hex.EncodeToString(sum[:8])+"-"+name)
}

// Fetch returns a local path for rawURL, downloading it unless cached
func (d *Downloader) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := os.MkdirAll(d.config.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cachedPath := d.CachePath(rawURL)

	if !d.config.ForceDownload {
		if _, err := os.Stat(cachedPath); err == nil {
			slog.Info("Using cached annotation file", "url", rawURL, "path", cachedPath)
			return cachedPath, nil
		}
	}

	slog.Info("Downloading annotation file", "url", rawURL)
	if err := d.downloadFile(ctx, rawURL, cachedPath); err != nil {
		return "", fmt.Errorf("failed to download annotation file: %w", err)
	}

	slog.Info("Annotation file downloaded", "path", cachedPath)
	return cachedPath, nil
}

func (d *Downloader) downloadFile(ctx context.Context, rawURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if d.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.config.Token)
	}

	resp, err := d.config.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	tempPath := destPath + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("download failed: %w", err)
	}
	slog.Debug("Download finished", "url", rawURL, "bytes", written)

	// Move temp file to final location
	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move file: %w", err)
	}

	return nil
}

// CacheDir returns the resolved cache directory.
func (d *Downloader) CacheDir() string {
	return d.config.CacheDir
}

// ClearCache removes all cached annotation files
func (d *Downloader) ClearCache() error {
	slog.Info("Clearing cache", "path", d.config.CacheDir)
	return os.RemoveAll(d.config.CacheDir)
}
