package swiftpm

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
)

const macOSIntelTriple = "x86_64-apple-macosx"

// DarwinFallbackTriple is used on Darwin when the toolchain can't describe its target.
const DarwinFallbackTriple = macOSIntelTriple

// TargetInfo is the subset of `swift -print-target-info` the helper reads.
type TargetInfo struct {
	CompilerVersion string `json:"compilerVersion"`
	Target          struct {
		Triple            string `json:"triple"`
		UnversionedTriple string `json:"unversionedTriple"`
		ModuleTriple      string `json:"moduleTriple"`
	} `json:"target"`
	Paths struct {
		RuntimeLibraryPaths []string `json:"runtimeLibraryPaths"`
		RuntimeResourcePath string   `json:"runtimeResourcePath"`
	} `json:"paths"`
}

// TargetResolver asks the swift driver for the triple it builds for. Results are cached per driver so the
// sanitizer passes don't query it again.
type TargetResolver struct {
	Runner   Runner
	Platform Platform

	cache map[string]string
}

// NewTargetResolver returns an empty resolver.
func NewTargetResolver(runner Runner, platform Platform) *TargetResolver {
	return &TargetResolver{
		Runner:   runner,
		Platform: platform,
		cache:    make(map[string]string),
	}
}

// Resolve returns the target triple of swiftExec. Darwin reports the unversioned triple.
func (r *TargetResolver) Resolve(ctx context.Context, swiftExec string) (string, error) {
	if triple, ok := r.cache[swiftExec]; ok {
		return triple, nil
	}

	triple, err := r.query(ctx, swiftExec)
	if err != nil {
		if r.Platform != PlatformDarwin {
			return "", err
		}

		// TODO: the fallback only covers Intel Macs; query the host arch once the toolchains in CI
		// all support -print-target-info.
		log(ctx).Warn().Err(err).Msgf("Falling back to %s", DarwinFallbackTriple)
		triple = DarwinFallbackTriple
	}

	r.cache[swiftExec] = triple
	return triple, nil
}

func (r *TargetResolver) query(ctx context.Context, swiftExec string) (string, error) {
	output, err := r.Runner.Output(ctx, Command{
		Args:  []string{swiftExec, "-print-target-info"},
		Quiet: true,
	})
	if err != nil {
		return "", eris.Wrap(err, "failed to retrieve target info")
	}

	var info TargetInfo
	err = json.Unmarshal([]byte(output), &info)
	if err != nil {
		return "", eris.Wrap(err, "failed to parse target info")
	}

	log(ctx).Debug().
		Str("compiler", info.CompilerVersion).
		Str("triple", info.Target.Triple).
		Msg("resolved target")

	triple := info.Target.Triple
	if r.Platform == PlatformDarwin {
		triple = info.Target.UnversionedTriple
	}

	if triple == "" {
		return "", eris.New("target info doesn't contain a triple")
	}

	return triple, nil
}
