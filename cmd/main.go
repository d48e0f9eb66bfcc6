package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/louisunlimited/sourcekit-lsp/pkg/swiftpm"
)

func newRootCmd(runner swiftpm.Runner, platform swiftpm.Platform) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "build-script-helper",
		Short: "Build sourcekit-lsp along with the Swift build-script",
		Long: `This command wraps SwiftPM to build, test and install sourcekit-lsp with a given toolchain.
It takes care of the toolchain specific linker flags and environment and can repeat
the whole action under every sanitizer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, action := range []swiftpm.Action{swiftpm.ActionBuild, swiftpm.ActionTest, swiftpm.ActionInstall} {
		rootCmd.AddCommand(newActionCmd(action, runner, platform))
	}

	return rootCmd
}

func execute(ctx context.Context, args []string, runner swiftpm.Runner, platform swiftpm.Platform) error {
	rootCmd := newRootCmd(runner, platform)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// Execute runs the CLI. Any error terminates the process with exit status 1.
func Execute() {
	logger := zerolog.New(NewConsoleWriter())
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	ctx := swiftpm.WithLogger(context.Background(), &logger)

	err := execute(ctx, os.Args[1:], swiftpm.NewShellRunner(), swiftpm.CurrentPlatform())
	if err != nil {
		msg := "Build failed"
		if swiftpm.IsConfigError(err) {
			msg = "Invalid configuration"
		}

		logger.Error().Err(err).Msg(msg)
		os.Exit(1)
	}
}
