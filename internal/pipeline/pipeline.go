package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"renpy-translator/internal/filewalker"
	"renpy-translator/internal/parser"
	"renpy-translator/internal/quota"
	"renpy-translator/internal/translation"
	"renpy-translator/internal/worker"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options tunes a translation run.
type Options struct {
	TargetLanguage string
	// LanguageDir limits discovery to game/tl/<LanguageDir>/ when set.
	LanguageDir   string
	WorkerCount   int
	BatchSize     int
	BatchMaxChars int
	MaxConcurrent int
}

// Stats summarises a run.
type Stats struct {
	Files         int
	Texts         int
	Translated    int
	FailedBatches int
	QuotaExceeded bool
}

// Pipeline translates every script below an input directory and writes the
// filled scripts to an output directory with the same layout.
type Pipeline struct {
	translator translation.Translator
	opts       Options
}

func New(translator translation.Translator, opts Options) *Pipeline {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	return &Pipeline{translator: translator, opts: opts}
}

// Run executes the pipeline. A failed batch leaves its slots empty; running
// out of quota stops sending batches but still writes what was translated.
func (p *Pipeline) Run(ctx context.Context, inputDir, outputDir string) (Stats, error) {
	var stats Stats

	var walkOpts []filewalker.Option
	if p.opts.LanguageDir != "" {
		walkOpts = append(walkOpts, filewalker.WithLanguage(p.opts.LanguageDir))
	}
	walker := filewalker.NewWalker(walkOpts...)
	entries, err := walker.Walk(inputDir)
	if err != nil {
		return stats, fmt.Errorf("walk input directory: %w", err)
	}
	stats.Files = len(entries)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return stats, fmt.Errorf("create output directory: %w", err)
	}

	parsePool := worker.NewPool[filewalker.FileEntry, *parser.ParseResult](p.opts.WorkerCount,
		func(ctx context.Context, entry filewalker.FileEntry) (*parser.ParseResult, error) {
			return walker.ParseFile(entry)
		},
	)
	parseResults := parsePool.Execute(ctx, entries)

	texts := uniqueTexts(parseResults)
	stats.Texts = len(texts)

	translations, failed, err := p.translateAll(ctx, texts)
	stats.Translated = len(translations)
	stats.FailedBatches = failed
	switch {
	case errors.Is(err, quota.ErrQuotaExceeded):
		stats.QuotaExceeded = true
		log.Warn().Err(err).Msg("Quota exhausted, writing partial translation")
	case err != nil:
		return stats, err
	}

	if err := p.writeAll(parseResults, translations, inputDir, outputDir); err != nil {
		return stats, err
	}

	log.Info().
		Int("files", stats.Files).
		Int("texts", stats.Texts).
		Int("translated", stats.Translated).
		Int("failed_batches", stats.FailedBatches).
		Str("output", outputDir).
		Msg("Translation pipeline complete")

	return stats, nil
}

// uniqueTexts collects extracted texts across files in first-seen order.
func uniqueTexts(results []worker.Task[filewalker.FileEntry, *parser.ParseResult]) []string {
	seen := make(map[string]struct{})
	var texts []string
	for _, pr := range results {
		if pr.Err != nil {
			log.Error().Err(pr.Err).Str("file", pr.Input.Path).Msg("Parse failed")
			continue
		}
		if pr.Result == nil {
			continue
		}
		for _, et := range pr.Result.Texts {
			if _, ok := seen[et.Text]; ok {
				continue
			}
			seen[et.Text] = struct{}{}
			texts = append(texts, et.Text)
		}
	}
	return texts
}

func (p *Pipeline) translateAll(ctx context.Context, texts []string) (map[string]string, int, error) {
	batches := worker.BatchByChars(texts, p.opts.BatchSize, p.opts.BatchMaxChars)

	var (
		mu           sync.Mutex
		translations = make(map[string]string, len(texts))
		failed       int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxConcurrent)

	for batchIdx, batch := range batches {
		batchIdx, batch := batchIdx, batch
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			log.Info().
				Int("batch", batchIdx+1).
				Int("total_batches", len(batches)).
				Int("size", len(batch)).
				Msg("Translating batch")

			out, err := p.translator.Translate(gctx, batch, p.opts.TargetLanguage)
			if err == nil && len(out) != len(batch) {
				err = fmt.Errorf("%w: got %d, want %d", translation.ErrLengthMismatch, len(out), len(batch))
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				if errors.Is(err, quota.ErrQuotaExceeded) || gctx.Err() != nil {
					return err
				}
				log.Error().Err(err).Int("batch", batchIdx+1).Msg("Batch translation failed")
				return nil
			}
			for i, source := range batch {
				if out[i] != "" {
					translations[source] = out[i]
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return translations, failed, ctx.Err()
		}
		return translations, failed, err
	}
	return translations, failed, nil
}

func (p *Pipeline) writeAll(results []worker.Task[filewalker.FileEntry, *parser.ParseResult], translations map[string]string, inputDir, outputDir string) error {
	inputAbs, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input directory: %w", err)
	}
	outputAbs, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}

	for _, pr := range results {
		if pr.Err != nil || pr.Result == nil {
			continue
		}

		entry := pr.Input
		reconstructed, err := entry.Parser.Reconstruct(pr.Result, translations)
		if err != nil {
			log.Error().Err(err).Str("file", entry.Path).Msg("Reconstruct failed")
			continue
		}

		relPath, err := filepath.Rel(inputAbs, entry.Path)
		if err != nil {
			log.Error().Err(err).Msg("Compute relative path")
			continue
		}
		outPath := filepath.Join(outputAbs, relPath)

		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("create output directory %s: %w", filepath.Dir(outPath), err)
		}
		if err := os.WriteFile(outPath, reconstructed, 0644); err != nil {
			return fmt.Errorf("write output file %s: %w", outPath, err)
		}

		log.Debug().
			Str("input", entry.Path).
			Str("output", outPath).
			Int("texts", len(pr.Result.Texts)).
			Msg("File translated")
	}
	return nil
}
