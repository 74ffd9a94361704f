package cli

import (
	"errors"
	"fmt"

	"renpy-translator/internal/config"
	"renpy-translator/internal/graph"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func glossaryCmd(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Manage the translation glossary stored in Neo4j",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Load glossary terms from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGlossaryImport(getConfig(), args[0])
		},
	})

	return cmd
}

// runGlossaryImport handles the `glossary import` command.
func runGlossaryImport(cfg *config.Config, path string) error {
	if cfg.Neo4jURI == "" {
		return errors.New("NEO4J_URI is not set")
	}

	terms, err := graph.LoadFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := setupContext()
	defer cancel()

	deps, err := initDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close(ctx)

	if err := deps.glossary.UpsertTerms(ctx, terms); err != nil {
		return fmt.Errorf("import glossary: %w", err)
	}

	log.Info().Int("terms", len(terms)).Str("file", path).Msg("Glossary imported")
	return nil
}
