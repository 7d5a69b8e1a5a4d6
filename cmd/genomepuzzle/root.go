package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "genomepuzzle",
		Short:         "Genome puzzles for microbial genomes",
		Long:          `Serves the GenomePuzzle site and publishes puzzle datasets to object storage.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(versionString() + "\n")

	root.AddCommand(newServeCmd(), newPublishCmd())
	return root
}
