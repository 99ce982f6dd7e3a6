package checkcmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/annotcheck/internal/coco"
	"github.com/lehigh-university-libraries/annotcheck/internal/dataset"
)

func executeExport(ctx context.Context, out io.Writer, source string, opts *Options, output string) error {
	ds, err := loadValid(ctx, source, opts)
	if err != nil {
		return err
	}

	rows := dataset.Flatten(ds)
	if err := dataset.Export(output, rows); err != nil {
		return err
	}

	slog.Info("Exported annotations", "source", source, "output", output, "rows", len(rows))
	fmt.Fprintf(out, "Wrote %d annotations to %s\n", len(rows), output)
	return nil
}

func executeSchema(out io.Writer, opts *Options) error {
	labels, err := opts.LabelSet()
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(coco.JSONSchema(labels))
}

func executeCacheClear(out io.Writer, opts *Options) error {
	downloader := dataset.NewDownloader(opts.DownloadConfig())
	if err := downloader.ClearCache(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Fprintf(out, "Cleared %s\n", downloader.CacheDir())
	return nil
}
