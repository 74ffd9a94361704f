package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"renpy-translator/internal/config"
	"renpy-translator/internal/logging"
	"renpy-translator/internal/parser"
	"renpy-translator/internal/renpy"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd, closeLog := NewRootCmd()
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. closeLog releases the log file opened
// by the command that ran, whether it succeeded or not.
func NewRootCmd() (rootCmd *cobra.Command, closeLog func() error) {
	var (
		cfg       *config.Config
		logCloser io.Closer
	)

	rootCmd = &cobra.Command{
		Use:           "renpy-translator",
		Short:         "Machine-translate Ren'Py translation scripts in place",
		Long:          "Extracts untranslated dialogue and strings from Ren'Py tl/<language> scripts, translates them and writes them back into the exact slots they came from.",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			logCloser = logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
		},
	}

	closeLog = func() error {
		if logCloser == nil {
			return nil
		}
		err := logCloser.Close()
		logCloser = nil
		return err
	}

	getConfig := func() *config.Config { return cfg }

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(translateCmd(getConfig))
	rootCmd.AddCommand(seedCmd(getConfig))
	rootCmd.AddCommand(glossaryCmd(getConfig))
	rootCmd.AddCommand(quotaCmd(getConfig))

	return rootCmd, closeLog
}

// extraction is the JSON document printed by the extract command.
type extraction struct {
	File  string   `json:"file"`
	Texts []string `json:"texts"`
	Slots []string `json:"slots"`
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file.rpy>",
		Short: "Print the untranslated texts of a script and the slots they belong to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := parser.NewRenPyParser().Parse(args[0])
			if err != nil {
				return err
			}

			doc := extraction{
				File:  args[0],
				Texts: result.SourceTexts(),
				Slots: result.Slots(),
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func applyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <file.rpy> <translations.json>",
		Short: "Fill a script's empty slots from a JSON array of translations",
		Long: `Reads a JSON array of strings ordered like the "texts" printed by extract
and writes the script with every matching empty slot filled.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return runApply(cmd.OutOrStdout(), args[0], args[1], output)
		},
	}

	cmd.Flags().StringP("output", "o", "", "Write the result to this file instead of stdout")

	return cmd
}

func runApply(stdout io.Writer, scriptPath, translationsPath, output string) error {
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	data, err := os.ReadFile(translationsPath)
	if err != nil {
		return fmt.Errorf("read translations: %w", err)
	}
	var translations []string
	if err := json.Unmarshal(data, &translations); err != nil {
		return fmt.Errorf("decode translations: %w", err)
	}

	slots := renpy.FindSlots(string(script))
	if len(slots) != len(translations) {
		log.Warn().
			Int("slots", len(slots)).
			Int("translations", len(translations)).
			Msg("Translation count differs from slot count")
	}

	result := renpy.Apply(string(script), translations)

	if output == "" {
		_, err := io.WriteString(stdout, result)
		return err
	}
	if err := os.WriteFile(output, []byte(result), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("output", output).Int("filled", min(len(slots), len(translations))).Msg("Script written")
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
