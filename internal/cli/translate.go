package cli

import (
	"errors"
	"fmt"
	"time"

	"renpy-translator/internal/cache"
	"renpy-translator/internal/config"
	"renpy-translator/internal/graph"
	"renpy-translator/internal/pipeline"
	"renpy-translator/internal/quota"
	"renpy-translator/internal/rag"
	"renpy-translator/internal/translation"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const quotaProvider = "gemini"

func translateCmd(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <input-dir> <output-dir>",
		Short: "Translate every empty slot of the scripts below input-dir",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
				cfg.TargetLanguage = config.NormalizeLanguage(lang)
			}
			tlDir, _ := cmd.Flags().GetString("tl")
			return runTranslate(cfg, args[0], args[1], tlDir)
		},
	}

	cmd.Flags().StringP("lang", "l", "", "Target language (overrides TARGET_LANGUAGE)")
	cmd.Flags().String("tl", "", "Only translate scripts under game/tl/<name>/")

	return cmd
}

// runTranslate handles the `translate` command.
func runTranslate(cfg *config.Config, inputDir, outputDir, tlDir string) error {
	if cfg.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY is not set")
	}

	ctx, cancel := setupContext()
	defer cancel()

	deps, err := initDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close(ctx)

	glossary, err := deps.loadGlossary(ctx, cfg.TargetLanguage)
	if err != nil {
		return err
	}

	translationCache := cache.NewTranslationCache(deps.cacheStore)
	if err := translationCache.Preload(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to preload translation cache")
	}

	guard := quota.NewGuard(deps.counter, quota.MonthlyKey(quotaProvider, time.Now()), cfg.CharacterQuota)
	translator := buildTranslator(cfg, glossary, deps.memory(cfg), translationCache, guard)

	p := pipeline.New(translator, pipeline.Options{
		TargetLanguage: cfg.TargetLanguage,
		LanguageDir:    tlDir,
		WorkerCount:    cfg.WorkerCount,
		BatchSize:      cfg.BatchSize,
		BatchMaxChars:  cfg.BatchMaxChars,
		MaxConcurrent:  cfg.MaxConcurrentAPICalls,
	})

	stats, err := p.Run(ctx, inputDir, outputDir)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	if remaining, err := guard.Remaining(ctx); err == nil {
		log.Info().Int("remaining_chars", remaining).Msg("Quota status")
	}
	if stats.QuotaExceeded {
		log.Warn().Msg("Character quota reached; rerun next month or raise CHARACTER_QUOTA to finish")
	}
	return nil
}

// buildTranslator stacks the cache in front of the quota guard so cache hits
// never spend quota. memory may be nil.
func buildTranslator(cfg *config.Config, glossary graph.Glossary, memory *rag.Retriever, c *cache.TranslationCache, guard *quota.Guard) translation.Translator {
	client := translation.NewGeminiClient(cfg.GeminiAPIKey, cfg.TranslationModel)
	gemini := translation.NewGeminiTranslator(client, glossary)
	if memory != nil {
		gemini.SetMemory(memory)
	}

	var t translation.Translator = translation.NewQuotaTranslator(gemini, guard)
	return translation.NewCachingTranslator(t, c)
}
