package cmd

import (
	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/annotcheck/internal/checkcmd"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	opts := &checkcmd.Options{}

	cmd := &cobra.Command{
		Use:   "annotcheck",
		Short: "Validate COCO object-detection annotation files",
		Long: `Annotcheck validates COCO object-detection annotation files.

It checks each document's shape (typed fields, 4-integer bounding boxes,
category names from a configurable label set) and the invariants a shape
check cannot express: unique image and category ids, and annotations that
point at existing images.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return opts.SetupLogging(cmd.ErrOrStderr())
		},
	}

	opts.AddFlags(cmd)

	// Add subcommands
	cmd.AddCommand(checkcmd.NewValidateCmd(opts))
	cmd.AddCommand(checkcmd.NewInspectCmd(opts))
	cmd.AddCommand(checkcmd.NewExportCmd(opts))
	cmd.AddCommand(checkcmd.NewSchemaCmd(opts))
	cmd.AddCommand(checkcmd.NewCacheCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}
