package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"voxtype/internal/bootstrap"
)

func newDaemonCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the dictation daemon",
		Long:  "Runs the recording coordinator and the control socket until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(opts)
		},
	}
}

func runDaemon(opts *rootOptions) error {
	services, err := bootstrap.Build(opts.overrides())
	if err != nil {
		return err
	}
	log := services.Log

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services.Coordinator.Start(ctx)
	if err := services.Server.Start(); err != nil {
		services.Coordinator.Stop()
		return err
	}

	log.Info().Str("socket", services.Config.SocketPath).Msg("daemon ready")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	if err := services.Server.Close(); err != nil {
		log.Warn().Err(err).Msg("control server close failed")
	}
	services.Coordinator.Stop()
	return nil
}
