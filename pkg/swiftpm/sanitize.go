package swiftpm

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/louisunlimited/sourcekit-lsp/pkg"
)

// sanitizerPasses returns the per-sanitizer configurations --sanitize-all runs on the given platform along
// with the sanitizers it skips there.
func sanitizerPasses(cfg Config, platform Platform) ([]Config, []Sanitizer) {
	passes := make([]Config, 0, len(AllSanitizers))
	skipped := make([]Sanitizer, 0)

	for _, san := range AllSanitizers {
		if !san.SupportedOn(platform) {
			skipped = append(skipped, san)
			continue
		}

		buildPath := filepath.Join(cfg.BuildPath, "test-"+san.ShortName())
		passes = append(passes, cfg.ForSanitizer(san, buildPath))
	}

	return passes, skipped
}

// Run performs cfg.Action and, with --sanitize-all, repeats it under every supported sanitizer. The first
// failure stops everything.
func (o *Orchestrator) Run(ctx context.Context, cfg Config) error {
	err := o.Dispatch(ctx, cfg)
	if err != nil {
		return err
	}

	if !cfg.SanitizeAll {
		return nil
	}

	passes, skipped := sanitizerPasses(cfg, o.Platform)
	for _, pass := range passes {
		san := pass.Sanitizers[0]
		pkg.PrintTask(fmt.Sprintf("%s %s with %s", cfg.Action, o.Profile.Name, san.ShortName()))

		err = o.Dispatch(ctx, pass)
		if err != nil {
			return eris.Wrapf(err, "%s pass failed", san.ShortName())
		}
	}

	for _, san := range skipped {
		pkg.PrintSubtask(fmt.Sprintf("skipped %s, not supported on %s", san.ShortName(), o.Platform))
	}

	return nil
}
