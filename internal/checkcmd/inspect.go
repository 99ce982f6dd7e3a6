package checkcmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/annotcheck/internal/coco"
	"github.com/lehigh-university-libraries/annotcheck/internal/dataset"
	"github.com/lehigh-university-libraries/annotcheck/internal/report"
)

func executeInspect(ctx context.Context, out io.Writer, source string, opts *Options, limit int) error {
	var rows []dataset.AnnotationRow

	if strings.EqualFold(filepath.Ext(source), ".parquet") {
		var err error
		rows, err = dataset.ReadParquet(source)
		if err != nil {
			return fmt.Errorf("failed to load export: %w", err)
		}
		fmt.Fprintf(out, "Loaded %d annotation rows from %s\n", len(rows), source)
	} else {
		ds, err := loadValid(ctx, source, opts)
		if err != nil {
			return err
		}
		res := report.NewResult(source, ds, nil)
		fmt.Fprintf(out, "Images:      %d\n", res.Images)
		fmt.Fprintf(out, "Annotations: %d\n", res.Annotations)
		fmt.Fprintf(out, "Categories:  %d\n", res.Categories)
		rows = dataset.Flatten(ds)
	}

	printLabelCounts(out, rows)
	printRows(out, rows, limit)
	return nil
}

// loadValid loads source and returns its dataset, or the validation error.
func loadValid(ctx context.Context, source string, opts *Options) (*coco.Dataset, error) {
	v, err := opts.Validator()
	if err != nil {
		return nil, err
	}

	doc, err := dataset.LoadSource(ctx, source, opts.DownloadConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to load annotation file: %w", err)
	}

	ds, err := v.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("%s is invalid: %w", source, err)
	}
	return ds, nil
}

func printLabelCounts(out io.Writer, rows []dataset.AnnotationRow) {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.CategoryName]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Annotations per label:")
	for _, label := range labels {
		name := label
		if name == "" {
			name = "<unknown>"
		}
		fmt.Fprintf(out, "  %-10s %d\n", name, counts[label])
	}
}

func printRows(out io.Writer, rows []dataset.AnnotationRow, limit int) {
	if limit <= 0 || limit > len(rows) {
		limit = len(rows)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for i, r := range rows[:limit] {
		line, _ := json.Marshal(r)
		fmt.Fprintf(out, "[%d] %s area=%d\n", i, line, r.Area())
	}
	if limit < len(rows) {
		fmt.Fprintf(out, "[... %d more annotations ...]\n", len(rows)-limit)
	}
}
