package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lang_portal/logging"
	"lang_portal/portal"
	"lang_portal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portal and vocabulary generator web server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080, overrides server.addr)")
	if err := viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(fmt.Sprintf("bind addr flag: %v", err))
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog := logging.New(cfg.Log)
	defer closeLog() //nolint:errcheck
	ctx := cmd.Context()

	gen, err := buildGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	p, err := portal.New()
	if err != nil {
		return err
	}
	srv, err := server.New(gen, p, server.Options{
		HistorySize: cfg.Server.HistorySize,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("provider", cfg.LLM.Provider).
		Str("model", cfg.LLM.Model).
		Str("validation", cfg.Generator.Validation).
		Msg("vocabulary generator ready")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
