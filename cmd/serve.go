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

	"github.com/CyrilRPG/diploma/internal/api"
	"github.com/CyrilRPG/diploma/internal/audit"
	"github.com/CyrilRPG/diploma/internal/config"
	"github.com/CyrilRPG/diploma/internal/revocation"
	"github.com/CyrilRPG/diploma/internal/service"
	"github.com/CyrilRPG/diploma/internal/tasks"
	"github.com/CyrilRPG/diploma/internal/upstream"
)

const sweepTaskName = "validity-sweep"

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the diploma gate server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := loadServiceConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if addr == "" {
			addr = cfg.Server.Addr
		}

		log.Info().Msg("Initializing revocation store...")
		revocations := revocation.Open(cfg.Revocation.Path)

		log.Info().Str("type", cfg.Upstream.Type).Msg("Initializing identity verifier...")
		verifier, err := upstream.New(cfg.Upstream)
		if err != nil {
			return fmt.Errorf("building identity verifier: %w", err)
		}

		auditor, err := audit.FromConfig(cfg.Audit)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer func() {
			_ = auditor.Close()
		}()

		if cfg.Admin.SigningKey == "" {
			log.Warn().Msg("no admin.signing_key configured, admin API is disabled")
		}

		svc := service.NewAuthService(revocations, verifier, auditor, cfg.Validity.Window)

		taskManager := tasks.NewManager()
		taskManager.Register(sweepTaskName, cfg.Validity.SweepInterval, svc.SweepValidity)
		defer taskManager.Close()

		// setup server
		srv := api.NewServer(svc, taskManager, cfg.Server.StaticDir)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes([]byte(cfg.Admin.SigningKey)),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
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

func loadServiceConfig() (*config.Config, error) {
	if cfgFile == "" {
		log.Warn().Msg("no --config given, running with defaults")
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides config)")
}
