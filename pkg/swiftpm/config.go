package swiftpm

import (
	"path/filepath"

	"github.com/louisunlimited/sourcekit-lsp/pkg"
)

// Action is one of the subcommands the helper understands.
type Action string

const (
	ActionBuild   Action = "build"
	ActionTest    Action = "test"
	ActionInstall Action = "install"
)

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	switch Action(name) {
	case ActionBuild, ActionTest, ActionInstall:
		return Action(name), nil
	}

	return "", configErrorf("unknown action '%s'", name)
}

// Config describes one invocation of the helper. It is treated as a value: the sanitizer loop derives
// copies from it instead of changing it.
type Config struct {
	Action             Action
	PackagePath        string
	BuildPath          string
	Configuration      string
	Toolchain          string
	NinjaBin           string
	Sanitizers         []Sanitizer
	SanitizeAll        bool
	CrossCompileHost   string
	CrossCompileConfig string
	InstallPrefixes    []string
	Verbose            bool
	NoLocalDeps        bool
	SkipLongTests      bool
}

// Prepare validates the configuration and returns a copy with canonical paths and a de-duplicated
// sanitizer list.
func (c Config) Prepare() (Config, error) {
	if len(c.Sanitizers) > 0 && c.SanitizeAll {
		return c, configErrorf("cannot combine --sanitize with --sanitize-all")
	}

	if _, err := ParseAction(string(c.Action)); err != nil {
		return c, err
	}

	if c.Toolchain == "" {
		return c, configErrorf("--toolchain is required")
	}

	switch c.Configuration {
	case "debug", "release":
	default:
		return c, configErrorf("unknown configuration '%s' (expected debug or release)", c.Configuration)
	}

	result := c
	result.Sanitizers = make([]Sanitizer, 0, len(c.Sanitizers))
	seen := make(map[Sanitizer]bool)
	for _, san := range c.Sanitizers {
		if !seen[san] {
			seen[san] = true
			result.Sanitizers = append(result.Sanitizers, san)
		}
	}

	paths := []*string{&result.PackagePath, &result.BuildPath, &result.Toolchain}
	if result.CrossCompileConfig != "" {
		paths = append(paths, &result.CrossCompileConfig)
	}

	result.InstallPrefixes = append([]string(nil), c.InstallPrefixes...)
	for idx := range result.InstallPrefixes {
		paths = append(paths, &result.InstallPrefixes[idx])
	}

	for _, path := range paths {
		canonical, err := pkg.CanonicalPath(*path)
		if err != nil {
			return c, err
		}
		*path = canonical
	}

	return result, nil
}

// SwiftExec returns the swift driver inside the toolchain.
func (c Config) SwiftExec() string {
	if c.Toolchain == "" {
		return "swift"
	}

	return filepath.Join(c.Toolchain, "bin", "swift")
}

// ForSanitizer derives the configuration of a --sanitize-all pass.
func (c Config) ForSanitizer(san Sanitizer, buildPath string) Config {
	pass := c
	pass.Sanitizers = []Sanitizer{san}
	pass.SanitizeAll = false
	pass.BuildPath = buildPath
	pass.InstallPrefixes = append([]string(nil), c.InstallPrefixes...)
	return pass
}
