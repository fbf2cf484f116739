package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profile-site/pkg/config"
	"profile-site/pkg/handlers"
	"profile-site/pkg/services"
	"profile-site/pkg/site"
)

const (
	watchDebounce   = 500 * time.Millisecond
	shutdownTimeout = 10 * time.Second
)

// newServeCmd creates a new command for serving the web application
func newServeCmd() *cobra.Command {
	var flags galleryFlags
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `Start the web server to serve the site pages, the JSON API and the gallery images via HTTP.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadSiteConfig()
			svc, cleanup, err := newCatalogService(cmd.Context(), cfg, &flags, services.InitService)
			if err != nil {
				return err
			}
			defer cleanup()

			return serveWebsite(cmd.Context(), cfg, svc, watch)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", true, "Rebuild the gallery when files in the gallery directory change")
	return cmd
}

// serveWebsite runs the web server until ctx is cancelled
func serveWebsite(ctx context.Context, cfg *config.SiteConfig, svc *services.Service, watch bool) error {
	siteCfg := svc.Site()
	background := site.NewBackground(siteCfg.Background.Endpoint, site.HTTPPreloader(&http.Client{Timeout: 10 * time.Second}))

	opts := handlers.Options{PublicDir: cfg.PublicDir}
	if cfg.GalleryBucket == "" {
		opts.GalleryDir = cfg.GalleryDir
		opts.AssetPrefix = cfg.AssetBaseURL

		if watch {
			w, err := services.NewWatcher(cfg.GalleryDir, watchDebounce, svc.Invalidate, logger)
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				logger.Warn("Gallery watcher disabled", zap.String("dir", cfg.GalleryDir), zap.Error(err))
			}
			defer w.Close()
		}
	}

	server := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           handlers.NewRouter(handlers.NewHandler(svc, background, opts, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Server error", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
