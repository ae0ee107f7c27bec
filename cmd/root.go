package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "refshelf",
		Short: "Personal reference library with AI-assisted metadata extraction",
		Long: `Refshelf manages a personal library of references: papers, books,
articles, and videos added by link or file upload.

Uploaded documents run through text extraction and LLM metadata
inference so most bibliographic fields fill themselves in.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "refshelf.yaml", "Path to the YAML config file")

	// Add subcommands
	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newExportCmd(&configPath))

	return cmd
}
