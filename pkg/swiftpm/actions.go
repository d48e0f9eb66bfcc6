package swiftpm

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/louisunlimited/sourcekit-lsp/pkg"
)

// Orchestrator runs the build, test and install actions.
type Orchestrator struct {
	Runner    Runner
	Platform  Platform
	Profile   *Profile
	Assembler *Assembler
}

// NewOrchestrator wires an orchestrator for the given platform. lookupEnv may be nil to read the process
// environment.
func NewOrchestrator(runner Runner, platform Platform, profile *Profile, lookupEnv func(string) (string, bool)) *Orchestrator {
	if profile == nil {
		profile = DefaultProfile()
	}

	return &Orchestrator{
		Runner:   runner,
		Platform: platform,
		Profile:  profile,
		Assembler: &Assembler{
			Platform:  platform,
			Profile:   profile,
			Resolver:  NewTargetResolver(runner, platform),
			LookupEnv: lookupEnv,
		},
	}
}

// Dispatch performs a single pass of cfg.Action.
func (o *Orchestrator) Dispatch(ctx context.Context, cfg Config) error {
	switch cfg.Action {
	case ActionBuild:
		return o.build(ctx, cfg)
	case ActionTest:
		return o.test(ctx, cfg)
	case ActionInstall:
		return o.install(ctx, cfg)
	default:
		return configErrorf("unknown action '%s'", cfg.Action)
	}
}

func (o *Orchestrator) build(ctx context.Context, cfg Config) error {
	for _, product := range o.Profile.Products {
		opts, err := o.Assembler.Options(ctx, cfg)
		if err != nil {
			return err
		}

		args := append([]string{cfg.SwiftExec(), "build", "--product", product}, opts...)
		err = o.Runner.Run(ctx, Command{
			Args: args,
			Env:  o.Assembler.Environment(cfg),
			Echo: cfg.Verbose,
		})
		if err != nil {
			return eris.Wrapf(err, "Failed to build product %s", product)
		}
	}

	return nil
}

func (o *Orchestrator) test(ctx context.Context, cfg Config) error {
	opts, err := o.Assembler.Options(ctx, cfg)
	if err != nil {
		return err
	}
	env := o.Assembler.Environment(cfg)

	binPath, err := o.binPath(ctx, cfg, opts, env)
	if err != nil {
		return err
	}

	if o.Profile.TestArtifacts != "" {
		tests := filepath.Join(binPath, o.Profile.TestArtifacts)
		log(ctx).Info().Str("path", tests).Msgf("Cleaning %s", tests)
		if err := pkg.RemoveTree(tests); err != nil {
			log(ctx).Warn().Err(err).Msg("Failed to clean old test results")
		}
	}

	args := append([]string{
		cfg.SwiftExec(), "test",
		"--parallel",
		"--disable-testable-imports",
		"--test-product", o.Profile.TestProduct,
	}, opts...)
	err = o.Runner.Run(ctx, Command{
		Args: args,
		Env:  env,
		Echo: cfg.Verbose,
	})
	return eris.Wrap(err, "Tests failed")
}

func (o *Orchestrator) install(ctx context.Context, cfg Config) error {
	opts, err := o.Assembler.Options(ctx, cfg)
	if err != nil {
		return err
	}
	env := o.Assembler.Environment(cfg)

	buildArgs := append([]string{cfg.SwiftExec(), "build"}, opts...)
	buildArgs = append(buildArgs, "-Xswiftc", "-no-toolchain-stdlib-rpath")
	err = o.Runner.Run(ctx, Command{
		Args: buildArgs,
		Env:  env,
		Echo: cfg.Verbose,
	})
	if err != nil {
		return eris.Wrap(err, "Failed to build for installation")
	}

	binPath, err := o.binPath(ctx, cfg, opts, env)
	if err != nil {
		return err
	}

	prefixes := cfg.InstallPrefixes
	if len(prefixes) == 0 {
		prefixes = []string{cfg.Toolchain}
	}

	exe := filepath.Join(binPath, o.Profile.Executable)
	for _, prefix := range prefixes {
		dest := filepath.Join(prefix, "bin")
		log(ctx).Info().Str("path", dest).Msgf("Installing %s to %s", o.Profile.Executable, dest)

		err = o.Runner.Run(ctx, Command{
			Args: []string{"rsync", "-a", exe, dest},
			Echo: cfg.Verbose,
		})
		if err != nil {
			return eris.Wrapf(err, "Failed to install %s to %s", o.Profile.Executable, dest)
		}
	}

	return nil
}

// binPath asks SwiftPM for the directory that contains the built products.
func (o *Orchestrator) binPath(ctx context.Context, cfg Config, opts []string, env map[string]string) (string, error) {
	args := append([]string{cfg.SwiftExec(), "build", "--show-bin-path"}, opts...)
	path, err := o.Runner.Output(ctx, Command{
		Args: args,
		Env:  env,
		Echo: cfg.Verbose,
	})
	if err != nil {
		return "", eris.Wrap(err, "Failed to determine the bin path")
	}

	return path, nil
}
