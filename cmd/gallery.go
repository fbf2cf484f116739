package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profile-site/pkg/config"
	"profile-site/pkg/gallery"
	"profile-site/pkg/services"
	"profile-site/pkg/site"
)

// galleryFlags are the indexing options shared by the gallery commands
type galleryFlags struct {
	fullPath  bool
	rootGroup string
	natural   bool
}

func (f *galleryFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.fullPath, "full-path", false, "Group by the full directory path instead of the first directory")
	cmd.Flags().StringVar(&f.rootGroup, "root-group", gallery.DefaultRootGroup, "Group name for images at the top of the gallery directory")
	cmd.Flags().BoolVar(&f.natural, "natural", false, "Sort groups and items in natural order (img2 before img10)")
}

func (f *galleryFlags) options() gallery.Options {
	opts := gallery.Options{
		GroupUseFullPath: f.fullPath,
		RootGroupName:    f.rootGroup,
	}
	if f.natural {
		opts.SortGroups = gallery.NaturalGroups
		opts.SortItems = gallery.NaturalItems
	}
	return opts
}

// newResolver picks the bucket resolver when a bucket is configured, the local directory otherwise.
// It returns the resolver, the scan root its paths are relative to and a cleanup function.
func newResolver(ctx context.Context, cfg *config.SiteConfig) (gallery.AssetResolver, string, func(), error) {
	if cfg.GalleryBucket != "" {
		r, err := gallery.NewBucketResolver(ctx, cfg.GalleryBucket, cfg.GalleryPrefix, logger)
		if err != nil {
			return nil, "", nil, err
		}
		logger.Debug("Indexing gallery bucket", zap.String("bucket", cfg.GalleryBucket), zap.String("prefix", cfg.GalleryPrefix))
		return r, cfg.GalleryPrefix, func() { _ = r.Close() }, nil
	}

	logger.Debug("Indexing gallery directory", zap.String("dir", cfg.GalleryDir))
	return gallery.NewFSResolver(cfg.GalleryDir, cfg.AssetBaseURL, logger), cfg.GalleryDir, func() {}, nil
}

// serviceFactory matches services.NewService and services.InitService
type serviceFactory func(site.Config, gallery.AssetResolver, string, gallery.Options, *zap.Logger) *services.Service

// newCatalogService loads the site content and wires it to the configured gallery source
func newCatalogService(ctx context.Context, cfg *config.SiteConfig, flags *galleryFlags, factory serviceFactory) (*services.Service, func(), error) {
	siteCfg, err := site.LoadConfig(afero.NewOsFs(), cfg.ConfigFile)
	if err != nil {
		return nil, nil, err
	}
	resolver, scanRoot, cleanup, err := newResolver(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return factory(siteCfg, resolver, scanRoot, flags.options(), logger), cleanup, nil
}

// newBuildGalleryCmd creates a new command for exporting the gallery catalog
func newBuildGalleryCmd() *cobra.Command {
	var flags galleryFlags
	var out string

	cmd := &cobra.Command{
		Use:   "build-gallery",
		Short: "Index the gallery and export the catalog",
		Long: `Scan the gallery directory (or bucket) and write the catalog as JSON to stdout or a file.
An empty gallery produces an empty catalog; the site falls back to its placeholder images.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadSiteConfig()
			resolver, scanRoot, cleanup, err := newResolver(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			catalog, err := gallery.Build(cmd.Context(), resolver, scanRoot, flags.options())
			if err != nil {
				return fmt.Errorf("failed to build gallery: %w", err)
			}
			if catalog.Empty() {
				logger.Warn("No gallery images found", zap.String("root", scanRoot))
			}

			data, err := json.MarshalIndent(catalog, "", "  ")
			if err != nil {
				return fmt.Errorf("error marshaling catalog: %w", err)
			}
			data = append(data, '\n')

			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			logger.Info("Wrote gallery catalog",
				zap.String("file", out),
				zap.Int("items", len(catalog.Items)),
				zap.Int("groups", len(catalog.Groups)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the catalog to this file instead of stdout")
	return cmd
}

// newListGroupsCmd creates a new command for listing gallery groups
func newListGroupsCmd() *cobra.Command {
	var flags galleryFlags

	cmd := &cobra.Command{
		Use:   "list-groups",
		Short: "List all gallery groups",
		Long:  `List all gallery groups in display order with the number of images in each.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newCatalogService(cmd.Context(), LoadSiteConfig(), &flags, services.NewService)
			if err != nil {
				return err
			}
			defer cleanup()

			catalog := svc.Catalog(cmd.Context())
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, "Gallery Groups:")
			fmt.Fprintln(w, "===============")
			for _, group := range catalog.Groups {
				fmt.Fprintf(w, "%s\n", group)
				fmt.Fprintf(w, "  Images: %d\n", len(catalog.ItemsInGroup(group)))
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "Total: %d groups\n", len(catalog.Groups))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// newShowGroupCmd creates a new command for showing the images of a group
func newShowGroupCmd() *cobra.Command {
	var flags galleryFlags

	cmd := &cobra.Command{
		Use:   "show-group [name]",
		Short: "Show images in a specific gallery group",
		Long:  `Show the title, source and path of every image in a gallery group.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newCatalogService(cmd.Context(), LoadSiteConfig(), &flags, services.NewService)
			if err != nil {
				return err
			}
			defer cleanup()

			items, err := svc.Group(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Group: %s\n", args[0])
			fmt.Fprintf(w, "Images: %d\n", len(items))
			fmt.Fprintln(w, "================")
			for i, item := range items {
				fmt.Fprintf(w, "%d. %s\n", i+1, item.Title)
				fmt.Fprintf(w, "   URL: %s\n", item.Src)
				if item.OriginalPath != "" {
					fmt.Fprintf(w, "   Path: %s\n", item.OriginalPath)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
