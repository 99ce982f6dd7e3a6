package checkcmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/annotcheck/internal/coco"
	"github.com/lehigh-university-libraries/annotcheck/internal/dataset"
	"github.com/spf13/cobra"
)

// Environment variables read after .env is loaded.
const (
	EnvLabels   = "ANNOTCHECK_LABELS"
	EnvLogLevel = "LOG_LEVEL"
	EnvToken    = "ANNOTCHECK_TOKEN"
	EnvCacheDir = "ANNOTCHECK_CACHE_DIR"
)

// Options holds the flags shared by every subcommand
type Options struct {
	Labels        []string
	LabelsFile    string
	CategoryRefs  bool
	LogLevel      string
	CacheDir      string
	ForceDownload bool
}

// AddFlags registers the shared flags as persistent flags on cmd.
func (o *Options) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringSliceVar(&o.Labels, "labels", nil, "Permitted category names (overrides --labels-file and "+EnvLabels+")")
	flags.StringVar(&o.LabelsFile, "labels-file", "", "YAML file listing permitted category names under 'labels'")
	flags.BoolVar(&o.CategoryRefs, "check-category-refs", false, "Also require every annotation category_id to name an existing category")
	flags.StringVar(&o.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default $"+EnvLogLevel+" or info)")
	flags.BoolVar(&o.ForceDownload, "force-download", false, "Download remote annotation files even when cached")
	flags.StringVar(&o.CacheDir, "cache-dir", "", "Cache directory for downloaded annotation files (default $"+EnvCacheDir+" or "+dataset.DefaultCacheDir+")")
}

// LabelSet resolves the permitted labels: flag, then labels file, then
// environment, then coco.DefaultLabels.
func (o *Options) LabelSet() (coco.LabelSet, error) {
	if set := coco.NewLabelSet(o.Labels...); len(set) > 0 {
		return set, nil
	}
	if o.LabelsFile != "" {
		return coco.LoadLabelsFile(o.LabelsFile)
	}
	if env := os.Getenv(EnvLabels); env != "" {
		if set := coco.ParseLabels(env); len(set) > 0 {
			return set, nil
		}
	}
	return coco.DefaultLabels, nil
}

// Validator builds a validator from the options.
func (o *Options) Validator() (*coco.Validator, error) {
	labels, err := o.LabelSet()
	if err != nil {
		return nil, err
	}
	slog.Debug("Validator configured", "labels", labels.String(), "category_refs", o.CategoryRefs)
	return coco.NewValidator(labels, o.CategoryRefs), nil
}

// DownloadConfig builds the remote fetch configuration.
func (o *Options) DownloadConfig() dataset.DownloadConfig {
	cacheDir := o.CacheDir
	if cacheDir == "" {
		cacheDir = os.Getenv(EnvCacheDir)
	}
	return dataset.DownloadConfig{
		CacheDir:      cacheDir,
		ForceDownload: o.ForceDownload,
		Token:         os.Getenv(EnvToken),
	}
}

// SetupLogging installs a text slog handler on w at the configured level.
func (o *Options) SetupLogging(w io.Writer) error {
	level := o.LogLevel
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}
	if level == "" {
		level = "info"
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}
