package cli

import (
	"fmt"

	"renpy-translator/internal/cache"
	"renpy-translator/internal/config"
	"renpy-translator/internal/seed"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func seedCmd(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <game-dir>",
		Short: "Load translations a game already ships into the cache and translation memory",
		Long: `Reads every filled slot under game-dir (usually game/tl/<name>/) and stores
the source/translation pairs so later runs reuse them instead of asking the provider.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
				cfg.TargetLanguage = config.NormalizeLanguage(lang)
			}
			tlDir, _ := cmd.Flags().GetString("tl")
			export, _ := cmd.Flags().GetString("export")
			return runSeed(cfg, args[0], tlDir, export)
		},
	}

	cmd.Flags().StringP("lang", "l", "", "Language the translations are in (overrides TARGET_LANGUAGE)")
	cmd.Flags().String("tl", "", "Only read scripts under game/tl/<name>/")
	cmd.Flags().String("export", "", "Only write the harvested pairs to this .json or .tsv file")

	return cmd
}

// runSeed handles the `seed` command.
func runSeed(cfg *config.Config, gameDir, tlDir, export string) error {
	ctx, cancel := setupContext()
	defer cancel()

	entries, err := seed.NewHarvester(cfg.TargetLanguage, tlDir, cfg.WorkerCount).Harvest(ctx, gameDir)
	if err != nil {
		return fmt.Errorf("harvest: %w", err)
	}

	if export != "" {
		return seed.Export(entries, export)
	}

	deps, err := initDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close(ctx)

	if deps.cacheStore == nil {
		log.Warn().Msg("DATABASE_URL not set, seeded translations will not outlive this process")
	}

	var memory seed.Rememberer
	if m := deps.memory(cfg); m != nil {
		memory = m
	}

	loader := seed.NewLoader(cache.NewTranslationCache(deps.cacheStore), memory, cfg.BatchSize)
	if err := loader.Load(ctx, entries); err != nil {
		return err
	}

	log.Info().Int("entries", len(entries)).Str("lang", cfg.TargetLanguage).Msg("Seed complete")
	return nil
}
