package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/skaut/skautis-gate/internal/api"
	"github.com/skaut/skautis-gate/internal/audit"
	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/content"
	"github.com/skaut/skautis-gate/internal/facts"
	"github.com/skaut/skautis-gate/internal/registration"
	"github.com/skaut/skautis-gate/internal/rulestore"
	"github.com/skaut/skautis-gate/internal/service"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gate server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		if err := requireConfig(); err != nil {
			return err
		}

		// initialize: config, provider, rule store, content tree
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log.Info().Str("provider", cfg.Provider.Name).Msg("Initializing facts provider...")
		provider, err := facts.BuildProvider(cfg.Provider)
		if err != nil {
			return fmt.Errorf("building facts provider: %w", err)
		}

		log.Info().Str("dir", cfg.RulesDir).Msg("Loading rule sets...")
		store, err := rulestore.NewFileStore(cfg.RulesDir)
		if err != nil {
			return fmt.Errorf("loading rule sets: %w", err)
		}

		tree, err := content.NewTree(cfg.Content)
		if err != nil {
			return fmt.Errorf("building content tree: %w", err)
		}

		auditor, err := audit.BuildAuditor(cfg.Audit)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer auditor.Close()

		users := registration.NewInMemoryUserStore()
		gateService := service.NewGateService(
			provider, store, tree, users, auditor, cfg.Registration, cfg.Debug,
		)

		// setup server
		srv := api.NewServer(gateService, store, auditor)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes(),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "address to listen on")
}
