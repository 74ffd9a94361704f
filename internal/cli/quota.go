package cli

import (
	"fmt"
	"time"

	"renpy-translator/internal/config"
	"renpy-translator/internal/quota"

	"github.com/spf13/cobra"
)

func quotaCmd(getConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show this month's character usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()

			ctx, cancel := setupContext()
			defer cancel()

			deps, err := initDependencies(ctx, cfg)
			if err != nil {
				return err
			}
			defer deps.Close(ctx)

			key := quota.MonthlyKey(quotaProvider, time.Now())
			used, err := deps.counter.Get(ctx, key)
			if err != nil {
				return fmt.Errorf("read quota: %w", err)
			}
			remaining, err := quota.NewGuard(deps.counter, key, cfg.CharacterQuota).Remaining(ctx)
			if err != nil {
				return fmt.Errorf("read quota: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d used, %d remaining of %d\n", key, used, remaining, cfg.CharacterQuota)
			return nil
		},
	}
}
