package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/louisunlimited/sourcekit-lsp/pkg/swiftpm"
)

var actionDescriptions = map[swiftpm.Action]string{
	swiftpm.ActionBuild:   "build the package",
	swiftpm.ActionTest:    "test the package",
	swiftpm.ActionInstall: "build the package and install its executable",
}

func newActionCmd(action swiftpm.Action, runner swiftpm.Runner, platform swiftpm.Platform) *cobra.Command {
	actionCmd := &cobra.Command{
		Use:   string(action),
		Short: actionDescriptions[action],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, profilePath, err := configFromFlags(cmd, action)
			if err != nil {
				return err
			}

			cfg, err = cfg.Prepare()
			if err != nil {
				return err
			}

			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			profile := swiftpm.DefaultProfile()
			if profilePath != "" {
				profile, err = swiftpm.LoadProfile(profilePath)
				if err != nil {
					return err
				}
			}

			orchestrator := swiftpm.NewOrchestrator(runner, platform, profile, nil)
			return orchestrator.Run(cmd.Context(), cfg)
		},
	}

	addCommonFlags(actionCmd)
	switch action {
	case swiftpm.ActionTest:
		actionCmd.Flags().Bool("skip-long-tests", false, "skip running long-running tests")
	case swiftpm.ActionInstall:
		actionCmd.Flags().StringArray("prefix", nil, "`PATH` to install sourcekit-lsp into (repeatable), default: the toolchain")
	}

	return actionCmd
}

func addCommonFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("package-path", ".", "directory of the package at `PATH`")
	flags.String("toolchain", "", "build using the toolchain at `PATH`")
	flags.String("ninja-bin", "", "ninja binary to use for testing")
	flags.String("build-path", ".build", "build in the given `PATH`")
	flags.StringP("configuration", "c", "debug", "build using configuration (release|debug)")
	flags.Bool("no-local-deps", false, "use normal remote dependencies when building")
	flags.StringArray("sanitize", nil, "build using the given sanitizer(s) (address|thread|undefined)")
	flags.Bool("sanitize-all", false, "build using every available sanitizer in sub-directories of build path")
	flags.Bool("no-clean", false, "don't clean the build directory prior to performing the action (no effect)")
	flags.BoolP("verbose", "v", false, "enable verbose output")
	flags.String("cross-compile-host", "", "cross-compile for another host instead")
	flags.String("cross-compile-config", "", "an SPM JSON destination `FILE` containing Swift cross-compilation flags")
	flags.String("profile", "", "YAML `FILE` overriding product and executable names")

	_ = cmd.MarkFlagRequired("toolchain")
}

func configFromFlags(cmd *cobra.Command, action swiftpm.Action) (swiftpm.Config, string, error) {
	flags := cmd.Flags()
	cfg := swiftpm.Config{Action: action}

	stringFlags := map[string]*string{
		"package-path":         &cfg.PackagePath,
		"toolchain":            &cfg.Toolchain,
		"ninja-bin":            &cfg.NinjaBin,
		"build-path":           &cfg.BuildPath,
		"configuration":        &cfg.Configuration,
		"cross-compile-host":   &cfg.CrossCompileHost,
		"cross-compile-config": &cfg.CrossCompileConfig,
	}
	for name, dest := range stringFlags {
		value, err := flags.GetString(name)
		if err != nil {
			return cfg, "", err
		}
		*dest = value
	}

	boolFlags := map[string]*bool{
		"no-local-deps": &cfg.NoLocalDeps,
		"sanitize-all":  &cfg.SanitizeAll,
		"verbose":       &cfg.Verbose,
	}
	if action == swiftpm.ActionTest {
		boolFlags["skip-long-tests"] = &cfg.SkipLongTests
	}
	for name, dest := range boolFlags {
		value, err := flags.GetBool(name)
		if err != nil {
			return cfg, "", err
		}
		*dest = value
	}

	sanitizers, err := flags.GetStringArray("sanitize")
	if err != nil {
		return cfg, "", err
	}
	for _, name := range sanitizers {
		san, err := swiftpm.ParseSanitizer(name)
		if err != nil {
			return cfg, "", err
		}
		cfg.Sanitizers = append(cfg.Sanitizers, san)
	}

	if action == swiftpm.ActionInstall {
		cfg.InstallPrefixes, err = flags.GetStringArray("prefix")
		if err != nil {
			return cfg, "", err
		}
	}

	profilePath, err := flags.GetString("profile")
	if err != nil {
		return cfg, "", err
	}

	return cfg, profilePath, nil
}
