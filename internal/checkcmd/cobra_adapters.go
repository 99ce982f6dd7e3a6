package checkcmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/annotcheck/internal/dataset"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command
func NewValidateCmd(opts *Options) *cobra.Command {
	var splits []string
	var root string
	var format string
	var reportPath string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "validate [files or URLs...]",
		Short: "Validate COCO detection annotation files",
		Long: `Validate COCO object-detection annotation files.

Each document is checked against the COCO detection shape (typed fields,
4-integer bboxes, category names from the permitted label set) and then for
unique image and category ids and for annotations that reference missing
images. Validation of a document stops at its first error.

Documents may be local .json/.yaml files or http(s) URLs, which are cached.`,
		Example: `  # Validate the train and val splits of a dataset
  annotcheck validate --root data/coco_sample --split train --split val

  # Validate files with a custom label set and save a YAML report
  annotcheck validate --labels chair,lamp --report reports/run.yaml a.json b.json

  # Validate a remote file and print JSON
  annotcheck validate --format json https://example.org/annotations.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := append([]string{}, args...)
			for _, split := range splits {
				sources = append(sources, dataset.SplitPath(root, split))
			}
			if len(sources) == 0 {
				return fmt.Errorf("no documents given: pass files, URLs or --split")
			}

			return executeValidate(cmd.Context(), cmd.OutOrStdout(), sources, opts, concurrency, format, reportPath)
		},
	}

	cmd.Flags().StringSliceVar(&splits, "split", nil, "Split names resolved to <root>/annotations/split_<split>.json")
	cmd.Flags().StringVar(&root, "root", "data/coco_sample", "Dataset root used with --split")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, yaml)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Also save the report to this .yaml or .json file")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of documents validated in parallel")

	return cmd
}

// NewInspectCmd creates the inspect command
func NewInspectCmd(opts *Options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect <file or URL>",
		Short: "Validate one annotation file and print its contents",
		Long: `Inspect a COCO annotation file or an exported .parquet file.

Annotation files are validated first; on success the command prints record
counts, annotations per label and the first annotations joined with their
image and category.`,
		Example: `  # Inspect the first 5 annotations
  annotcheck inspect data/coco_sample/annotations/split_train.json --limit 5

  # Inspect an export
  annotcheck inspect annotations.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeInspect(cmd.Context(), cmd.OutOrStdout(), args[0], opts, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of annotations to print (0 for all)")

	return cmd
}

// NewExportCmd creates the export command
func NewExportCmd(opts *Options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <file or URL>",
		Short: "Export validated annotations as one row per box",
		Long: `Validate an annotation file and write its annotations as a flat table
(image_id, file_name, category_id, category_name, x, y, width, height, area).

The format follows the output extension: .parquet or .csv.`,
		Example: `  annotcheck export data/coco_sample/annotations/split_train.json --output train.parquet`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeExport(cmd.Context(), cmd.OutOrStdout(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.parquet or .csv, required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// NewSchemaCmd creates the schema command
func NewSchemaCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for annotation files",
		Long: `Print a JSON Schema (draft 2020-12) describing the accepted document
shape for the configured label set. Id uniqueness and references are not
expressible in JSON Schema and are only checked by validate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeSchema(cmd.OutOrStdout(), opts)
		},
	}
}

// NewCacheCmd creates the cache command
func NewCacheCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage downloaded annotation files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached annotation files",
		Example: `  annotcheck cache clear
  annotcheck cache clear --cache-dir /tmp/annotcheck`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeCacheClear(cmd.OutOrStdout(), opts)
		},
	})

	return cmd
}
