package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profile-site/pkg/config"
	"profile-site/pkg/logging"
)

// Configuration flags
var (
	envFile    string
	verbose    bool
	galleryDir string
	bucketName string
	portNumber string
	baseURL    string
)

// logger is set up before any command runs
var logger = zap.NewNop()

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "profile-site",
		Short: "Profile site is a tool for building, serving and deploying a personal site",
		Long: `Profile site indexes the gallery images of a personal profile site, serves the site
over HTTP and purges the Cloudflare edge cache after a deployment.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}
			l, err := logging.New(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	// Define persistent flags that will be available for all commands
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Load environment variables from this file when it exists")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&galleryDir, "gallery-dir", "g", "", "Set the GALLERY_DIR (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&bucketName, "bucket", "b", "", "Set the GALLERY_BUCKET (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&portNumber, "port", "p", "", "Set the PORT (overrides environment variable)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Set the BASE_URL (overrides environment variable)")

	// Add commands to root
	rootCmd.AddCommand(newBuildGalleryCmd())
	rootCmd.AddCommand(newListGroupsCmd())
	rootCmd.AddCommand(newShowGroupCmd())
	rootCmd.AddCommand(newPurgeCacheCmd())
	rootCmd.AddCommand(newInlineCSSCmd())
	rootCmd.AddCommand(newURLsCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// applyFlags exports flag values as environment variables so the config loaders see them
func applyFlags() {
	if galleryDir != "" {
		os.Setenv("GALLERY_DIR", galleryDir)
	}

	if bucketName != "" {
		os.Setenv("GALLERY_BUCKET", bucketName)
	}

	if portNumber != "" {
		os.Setenv("PORT", portNumber)
	}

	if baseURL != "" {
		os.Setenv("BASE_URL", baseURL)
	}
}

// LoadSiteConfig loads site configuration with respect to command line flags
func LoadSiteConfig() *config.SiteConfig {
	applyFlags()
	return config.LoadSite()
}

// LoadPurgeConfig loads purge configuration with respect to command line flags
func LoadPurgeConfig() (*config.PurgeConfig, error) {
	applyFlags()
	return config.LoadPurge()
}
