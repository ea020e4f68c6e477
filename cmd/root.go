package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var verbose bool
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logger := newLogger(level)

	rootCmd := &cobra.Command{
		Use:           "coach",
		Short:         "AI career coach (coach): upload a resume and chat about it",
		Long:          "coach uploads your resume to the career coaching service, keeps one conversation per resume, and lets you chat, review skill gaps and learning roadmaps from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				level.SetLevel(zapcore.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")

	app, err := wireApp(logger)
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}
	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		_ = logger.Sync()
		return app.close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newUploadCmd(app),
		newSessionCmd(app),
		newChatCmd(app),
	)

	return rootCmd
}

func newLogger(level zap.AtomicLevel) *zap.Logger {
	config := zap.NewProductionConfig()
	config.Level = level
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}
