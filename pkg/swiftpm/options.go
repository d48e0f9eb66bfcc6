package swiftpm

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Assembler computes the SwiftPM flags and environment for a configuration.
type Assembler struct {
	Platform Platform
	Profile  *Profile
	Resolver *TargetResolver
	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

func (a *Assembler) lookupEnv(name string) (string, bool) {
	if a.LookupEnv == nil {
		return os.LookupEnv(name)
	}

	return a.LookupEnv(name)
}

func isAndroidHost(host string) bool {
	return strings.HasPrefix(host, "android-")
}

// Options returns the flags passed to every swift build / swift test invocation.
func (a *Assembler) Options(ctx context.Context, cfg Config) ([]string, error) {
	args := []string{
		"--package-path", cfg.PackagePath,
		"--build-path", cfg.BuildPath,
		"--configuration", cfg.Configuration,
	}

	if cfg.Verbose {
		args = append(args, "--verbose")
	}

	for _, san := range cfg.Sanitizers {
		args = append(args, san.Flag())
	}

	if a.Platform == PlatformDarwin {
		// Relative library rpath for swift; only used when /usr/lib/swift is not available.
		args = append(args, "-Xlinker", "-rpath", "-Xlinker", "@executable_path/../lib/swift/macosx")
	} else {
		args = append(args,
			// Dispatch headers
			"-Xcxx", "-I", "-Xcxx", filepath.Join(cfg.Toolchain, "lib", "swift"),
			// For <Block.h>
			"-Xcxx", "-I", "-Xcxx", filepath.Join(cfg.Toolchain, "lib", "swift", "Block"),
		)
	}

	_, onAndroid := a.lookupEnv("ANDROID_DATA")
	if onAndroid || isAndroidHost(cfg.CrossCompileHost) {
		args = append(args,
			"-Xlinker", "-rpath", "-Xlinker", "$ORIGIN/../lib/swift/android",
			// SwiftPM would otherwise compile against GNU strerror_r which Android doesn't have.
			"-Xswiftc", "-Xcc", "-Xswiftc", "-U_GNU_SOURCE",
		)
	} else if a.Platform == PlatformLinux {
		// Library rpath for swift, dispatch, Foundation, etc. when installing
		args = append(args, "-Xlinker", "-rpath", "-Xlinker", "$ORIGIN/../lib/swift/linux")
	}

	triple, err := a.Resolver.Resolve(ctx, cfg.SwiftExec())
	if err != nil {
		return nil, err
	}

	if cfg.CrossCompileHost != "" {
		switch {
		case triple == macOSIntelTriple && cfg.CrossCompileHost == "macosx-arm64":
			args = append(args, "--arch", "x86_64", "--arch", "arm64")
		case isAndroidHost(cfg.CrossCompileHost):
			if cfg.CrossCompileConfig == "" {
				return nil, configErrorf("--cross-compile-config is required when cross-compiling for %s", cfg.CrossCompileHost)
			}

			log(ctx).Info().Msgf("Cross-compiling for %s", cfg.CrossCompileHost)
			args = append(args, "--destination", cfg.CrossCompileConfig)
		default:
			return nil, configErrorf("cannot cross-compile for %s", cfg.CrossCompileHost)
		}
	}

	return args, nil
}

// Environment returns the variables set for swift build / swift test on top of the process environment.
func (a *Assembler) Environment(cfg Config) map[string]string {
	env := make(map[string]string)

	// the toolchain used by the tests at runtime
	for _, name := range a.Profile.ToolchainEnv {
		env[name] = cfg.Toolchain
	}

	// use the dependencies checked out next to the package
	if !cfg.NoLocalDeps {
		env["SWIFTCI_USE_LOCAL_DEPS"] = "1"
	}

	if cfg.NinjaBin != "" {
		env["NINJA_BIN"] = cfg.NinjaBin
	}

	for _, san := range cfg.Sanitizers {
		name, value := san.runtimeOptions(cfg.PackagePath, a.Profile)
		if name != "" {
			env[name] = value
		}
	}

	if cfg.Action == ActionTest && !cfg.SkipLongTests && a.Profile.LongTestsEnv != "" {
		env[a.Profile.LongTestsEnv] = "1"
	}

	env["SWIFT_EXEC"] = cfg.SwiftExec() + "c"
	return env
}
