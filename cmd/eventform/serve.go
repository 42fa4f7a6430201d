package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-eventform/internal/server"
	"github.com/goliatone/go-eventform/pkg/apidoc"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registration form over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			orch, _, err := a.orchestrator(nil)
			if err != nil {
				return err
			}
			fm, err := orch.Model()
			if err != nil {
				return err
			}
			api, err := apidoc.New(ctx, fm, apidoc.WithVersion(version))
			if err != nil {
				return err
			}

			srv, err := server.New(orch, api,
				server.WithLogger(a.logger),
				server.WithSessionTTL(a.cfg.Server.SessionTTL, a.cfg.Server.CleanupInterval),
				server.WithLiveChanges(a.cfg.Server.LiveChanges),
			)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, a.cfg.Server.Addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from server.addr)")
	_ = a.viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
