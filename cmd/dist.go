package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profile-site/pkg/config"
	"profile-site/pkg/inline"
	"profile-site/pkg/purge"
)

// newInlineCSSCmd creates a new command that inlines local stylesheets into built pages
func newInlineCSSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inline-css [dist]",
		Short: "Inline local stylesheets into built HTML",
		Long:  `Replace every local <link rel="stylesheet"> in the HTML files of a build directory with a <style> element.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modified, err := inline.InlineCSS(afero.NewOsFs(), args[0])
			if err != nil {
				return fmt.Errorf("failed to inline css: %w", err)
			}

			for _, p := range modified {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			logger.Info("Inlined stylesheets", zap.String("dist", args[0]), zap.Int("pages", len(modified)))
			return nil
		},
	}
}

// newURLsCmd creates a new command listing the site URLs of a build directory
func newURLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "urls [dist]",
		Short: "List the site URLs of a build directory",
		Long:  `Print the URLs served from a build directory as a JSON array, suitable for PURGE_URLS.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlags()
			urls, err := purge.DistURLs(afero.NewOsFs(), args[0], config.BaseURL())
			if err != nil {
				return err
			}
			if urls == nil {
				urls = []string{}
			}

			data, err := json.Marshal(urls)
			if err != nil {
				return fmt.Errorf("error marshaling urls: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
