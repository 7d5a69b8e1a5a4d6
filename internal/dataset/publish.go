package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// Publisher uploads a dataset directory and writes its public manifest.
type Publisher struct {
	Store       Store
	Dir         string
	PublicURL   string
	PublicDir   string
	Seed        uint64
	Concurrency int
	DryRun      bool
	Logger      *slog.Logger
}

// Result summarizes a publish run.
type Result struct {
	Details  *FileDetails
	Uploaded []string
	Skipped  []string
	Written  []string
}

// Publish runs the whole pipeline: locate and parse the sheets, upload the
// reads and sheets, then write file_details.json and the download scripts.
// With DryRun set no Store calls are made.
func (p *Publisher) Publish(ctx context.Context) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	answerPath, err := FindSheet(p.Dir, AnswerSheetSuffix)
	if err != nil {
		return nil, err
	}
	samplePath, err := FindSheet(p.Dir, SampleSheetSuffix)
	if err != nil {
		return nil, err
	}

	samples, err := ReadAnswerSheet(answerPath, p.Dir, p.PublicURL)
	if err != nil {
		return nil, err
	}
	logger.Info("answer sheet loaded", "path", answerPath, "samples", len(samples))

	answerName := AnswerSheetName(p.Seed)
	res := &Result{Details: BuildDetails(samples, p.PublicURL, answerName)}

	if !p.DryRun {
		if p.Store == nil {
			return nil, fmt.Errorf("publish: no store configured")
		}
		if err := p.uploadReads(ctx, logger, samples, res); err != nil {
			return nil, err
		}
		if err := p.Store.Upload(ctx, answerName, answerPath); err != nil {
			return nil, fmt.Errorf("upload answer sheet: %w", err)
		}
		if err := p.Store.Upload(ctx, SampleSheetName, samplePath); err != nil {
			return nil, fmt.Errorf("upload sample sheet: %w", err)
		}
		res.Uploaded = append(res.Uploaded, answerName, SampleSheetName)
		logger.Info("sheets uploaded", "answer_sheet", answerName, "sample_sheet", SampleSheetName)
	}

	if err := os.MkdirAll(p.PublicDir, 0o755); err != nil {
		return nil, fmt.Errorf("create public dir: %w", err)
	}

	detailsPath := filepath.Join(p.PublicDir, DetailsFile)
	if err := WriteDetails(detailsPath, res.Details); err != nil {
		return nil, err
	}
	res.Written = append(res.Written, detailsPath)

	scripts, err := WriteScripts(p.PublicDir, res.Details)
	if err != nil {
		return nil, err
	}
	res.Written = append(res.Written, scripts...)
	for _, s := range scripts {
		logger.Info("download script created", "path", s)
	}

	return res, nil
}

type uploadOutcome struct {
	key     string
	skipped bool
}

// uploadReads copies every R1/R2 file that is not yet in the store, with at
// most Concurrency transfers in flight.
func (p *Publisher) uploadReads(ctx context.Context, logger *slog.Logger, samples []Sample, res *Result) error {
	var paths []string
	for _, s := range samples {
		logger.Info("uploading sample", "public_name", s.PublicName)
		paths = append(paths, s.R1Path, s.R2Path)
	}

	outcomes := make([]uploadOutcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.Concurrency, 1))
	for i, path := range paths {
		g.Go(func() error {
			key := filepath.Base(path)
			outcomes[i].key = key

			exists, err := p.Store.Exists(gctx, key)
			if err != nil {
				return err
			}
			if exists {
				outcomes[i].skipped = true
				logger.Info("file already exists in bucket, skipping", "key", key)
				return nil
			}

			start := time.Now()
			if err := p.Store.Upload(gctx, key, path); err != nil {
				return fmt.Errorf("upload %s: %w", key, err)
			}
			logger.Info("uploaded", "key", key, "ms", time.Since(start).Milliseconds())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, o := range outcomes {
		if o.skipped {
			res.Skipped = append(res.Skipped, o.key)
		} else {
			res.Uploaded = append(res.Uploaded, o.key)
		}
	}
	return nil
}
