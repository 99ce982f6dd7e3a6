package checkcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/annotcheck/internal/coco"
	"github.com/lehigh-university-libraries/annotcheck/internal/dataset"
	"github.com/lehigh-university-libraries/annotcheck/internal/report"
	"golang.org/x/sync/errgroup"
)

// ErrValidationFailed is returned when at least one document is invalid.
var ErrValidationFailed = errors.New("validation failed")

// ValidateSources loads and validates every source with at most concurrency
// documents in flight. Results are in the order of sources.
func ValidateSources(ctx context.Context, sources []string, v *coco.Validator, dl dataset.DownloadConfig, concurrency int) []report.Result {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]report.Result, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, source := range sources {
		g.Go(func() error {
			slog.Debug("Validating document", "source", source, "progress", fmt.Sprintf("%d/%d", i+1, len(sources)))

			doc, err := dataset.LoadSource(ctx, source, dl)
			if err != nil {
				slog.Warn("Failed to load document", "source", source, "err", err)
				results[i] = report.NewResult(source, nil, err)
				return nil
			}

			ds, err := v.Validate(doc)
			if err != nil {
				slog.Info("Document is invalid", "source", source, "code", coco.ErrorCode(err), "err", err)
			}
			results[i] = report.NewResult(source, ds, err)
			return nil
		})
	}

	// workers never return errors; failures are recorded per result
	_ = g.Wait()

	return results
}

func executeValidate(ctx context.Context, out io.Writer, sources []string, opts *Options, concurrency int, format, reportPath string) error {
	v, err := opts.Validator()
	if err != nil {
		return err
	}

	slog.Info("Starting validation", "documents", len(sources), "concurrency", concurrency)

	rep := report.New(v)
	rep.Results = ValidateSources(ctx, sources, v, opts.DownloadConfig(), concurrency)

	if err := rep.Write(out, format); err != nil {
		return err
	}

	if reportPath != "" {
		if err := rep.Save(reportPath); err != nil {
			return err
		}
		slog.Info("Report saved", "path", reportPath)
	}

	if failed := rep.Failed(); failed > 0 {
		return fmt.Errorf("%w: %d of %d documents", ErrValidationFailed, failed, len(rep.Results))
	}
	return nil
}
