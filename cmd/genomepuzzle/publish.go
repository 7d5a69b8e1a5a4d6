package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genomepuzzle/site/internal/config"
	"github.com/genomepuzzle/site/internal/dataset"
	"github.com/genomepuzzle/site/internal/logging"
)

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload a dataset and write its public manifest",
		Long: `Uploads the read files and sheets of a dataset directory to the bucket
named in the dotenv file, then writes file_details.json and the curl/wget
download scripts into the public directory.`,
		Args: cobra.NoArgs,
	}
	pcfg := config.RegisterPublish(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := pcfg.Validate(); err != nil {
			return err
		}
		logger := logging.Setup(cmd.ErrOrStderr(), slog.LevelInfo)
		ctx := cmd.Context()

		bucket, err := pcfg.LoadBucket()
		if err != nil {
			if !pcfg.DryRun {
				return err
			}
			logger.Warn("bucket config incomplete, continuing dry run", "error", err)
			bucket = &config.Bucket{PublicURL: strings.TrimRight(os.Getenv("PUBLIC_URL"), "/")}
		}

		p := &dataset.Publisher{
			Dir:         pcfg.Path,
			PublicURL:   bucket.PublicURL,
			PublicDir:   pcfg.PublicDir,
			Seed:        pcfg.RandomSeed,
			Concurrency: pcfg.Concurrency,
			DryRun:      pcfg.DryRun,
			Logger:      logger,
		}
		if !pcfg.DryRun {
			store, err := dataset.NewS3Store(ctx, bucket)
			if err != nil {
				return err
			}
			p.Store = store
		}

		res, err := p.Publish(ctx)
		if err != nil {
			return err
		}

		logger.Info("dataset published",
			"samples", len(res.Details.Samples),
			"uploaded", len(res.Uploaded),
			"skipped", len(res.Skipped),
			"written", res.Written,
			"dry_run", pcfg.DryRun,
		)
		return nil
	}
	return cmd
}
