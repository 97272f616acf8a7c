package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blixt/tagstream/config"
	"github.com/blixt/tagstream/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Parse streams sent over WebSocket connections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var current atomic.Pointer[config.Config]
		current.Store(cfg)

		s := server.New(current.Load, log)
		if err := s.Start(addr); err != nil {
			return err
		}
		defer s.Close()

		if _, err := os.Stat(configPath); err == nil {
			go watchConfig(ctx, &current)
		}

		<-ctx.Done()
		log.Info().Msg("shutting down")
		return nil
	},
}

// watchConfig swaps in the config file's new contents whenever it changes.
// Invalid changes are logged and ignored.
func watchConfig(ctx context.Context, current *atomic.Pointer[config.Config]) {
	err := config.Watch(ctx, configPath, func(next *config.Config, err error) {
		if err != nil {
			log.Warn().Err(err).Msg("config not reloaded")
			return
		}
		current.Store(next)
		log.Info().Str("path", configPath).Int("tools", next.Toolbox().Len()).Msg("config reloaded")
	})
	if err != nil {
		log.Warn().Err(err).Msg("not watching config")
	}
}
