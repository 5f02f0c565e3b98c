package cli

import (
	"github.com/spf13/cobra"

	"voxtype/internal/config"
)

type rootOptions struct {
	envFile    string
	socketPath string
	endpoint   string
	model      string
	logLevel   string
}

// NewRootCmd builds the voxtype command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "voxtype",
		Short:         "Dictation daemon: record, transcribe, paste",
		Long:          "voxtype records microphone audio on a trigger, transcribes it through a remote speech-to-text endpoint, and pastes the text into the focused application.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "path to .env file (default .env)")
	root.PersistentFlags().StringVar(&opts.socketPath, "socket", "", "daemon control socket path")
	root.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "transcription endpoint URL")
	root.PersistentFlags().StringVar(&opts.model, "model", "", "transcription model name")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newDaemonCmd(opts),
		newTriggerCmd(opts, "toggle", "Start recording, or stop and transcribe if recording"),
		newTriggerCmd(opts, "start", "Begin a push-to-talk recording"),
		newTriggerCmd(opts, "stop", "End a push-to-talk recording and transcribe"),
		newTriggerCmd(opts, "cancel", "Request cancellation of the active session"),
		newStatusCmd(opts),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) overrides() config.Overrides {
	return config.Overrides{
		EnvFile:    o.envFile,
		SocketPath: o.socketPath,
		Endpoint:   o.endpoint,
		Model:      o.model,
		LogLevel:   o.logLevel,
	}
}

func (o *rootOptions) resolveSocket() (string, error) {
	cfg, err := config.Load(o.overrides())
	if err != nil {
		return "", err
	}
	return cfg.SocketPath, nil
}
