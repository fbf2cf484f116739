package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profile-site/pkg/purge"
)

// newPurgeCacheCmd creates a new command for purging the Cloudflare cache after a deployment
func newPurgeCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-cache",
		Short: "Purge the Cloudflare edge cache",
		Long: `Purge the Cloudflare cache for the URLs in PURGE_URLS, or for the URLs that the
files in CHANGED_PATHS map to. When neither yields a URL the whole zone is purged.
Requests are sent in batches of 30 and the first failure ends the run with a non-zero status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.With(zap.String("run_id", uuid.NewString()))

			cfg, err := LoadPurgeConfig()
			if err != nil {
				log.Error("Missing purge configuration", zap.Error(err))
				return err
			}

			urls, err := purge.ResolveURLs(purge.Input{
				ExplicitURLs: cfg.PurgeURLs,
				ChangedPaths: cfg.ChangedPaths,
				BaseURL:      cfg.BaseURL,
			}, log)
			if err != nil {
				log.Error("Cannot map changed paths", zap.Error(err))
				return err
			}

			client, err := purge.NewClient(cfg.ZoneID, cfg.APIToken, cfg.APIBase)
			if err != nil {
				return err
			}

			result, err := purge.NewDispatcher(client, log).Run(cmd.Context(), urls)
			if err != nil {
				log.Error("Cache purge failed", zap.Error(err))
				return err
			}

			if result.Everything {
				fmt.Fprintln(cmd.OutOrStdout(), "Purged everything")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Purged %d URLs in %d batches\n", result.URLs, result.Batches)
			}
			return nil
		},
	}
}
