package swiftpm

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const (
	linuxTriple  = "x86_64-unknown-linux-gnu"
	darwinTriple = "x86_64-apple-macosx10.15"
)

// fakeRunner records every command instead of running it.
type fakeRunner struct {
	commands []Command
	// targetInfo is returned for -print-target-info. Empty means the query fails.
	targetInfo string
	binPath    string
	// fail lets tests reject individual commands.
	fail func(Command) error
}

func targetInfoJSON(triple, unversioned string) string {
	return fmt.Sprintf(`{"compilerVersion": "Swift version 5.4", "target": {"triple": %q, "unversionedTriple": %q}, "paths": {"runtimeLibraryPaths": []}}`,
		triple, unversioned)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		targetInfo: targetInfoJSON(linuxTriple, linuxTriple),
		binPath:    "/tmp/build/debug",
	}
}

func (r *fakeRunner) Run(ctx context.Context, cmd Command) error {
	r.commands = append(r.commands, cmd)
	if r.fail != nil {
		return r.fail(cmd)
	}
	return nil
}

func (r *fakeRunner) Output(ctx context.Context, cmd Command) (string, error) {
	r.commands = append(r.commands, cmd)
	if r.fail != nil {
		if err := r.fail(cmd); err != nil {
			return "", err
		}
	}

	for _, arg := range cmd.Args {
		switch arg {
		case "-print-target-info":
			if r.targetInfo == "" {
				return "", &CommandError{Args: cmd.Args, Status: 1}
			}
			return r.targetInfo, nil
		case "--show-bin-path":
			return r.binPath, nil
		}
	}

	return "", nil
}

// invocations returns the recorded commands whose arguments start with the given prefix.
func (r *fakeRunner) invocations(prefix ...string) []Command {
	result := []Command{}
	for _, cmd := range r.commands {
		if len(cmd.Args) < len(prefix) {
			continue
		}

		match := true
		for idx, part := range prefix {
			if cmd.Args[idx] != part {
				match = false
				break
			}
		}

		if match {
			result = append(result, cmd)
		}
	}
	return result
}

func (r *fakeRunner) commandLines() []string {
	lines := make([]string, len(r.commands))
	for idx, cmd := range r.commands {
		lines[idx] = strings.Join(cmd.Args, " ")
	}
	return lines
}

func testContext() context.Context {
	logger := zerolog.Nop()
	return WithLogger(context.Background(), &logger)
}

func noEnv(string) (string, bool) {
	return "", false
}

func newTestOrchestrator(t *testing.T, runner *fakeRunner, platform Platform) *Orchestrator {
	t.Helper()
	return NewOrchestrator(runner, platform, DefaultProfile(), noEnv)
}

func testConfig(action Action) Config {
	return Config{
		Action:        action,
		PackagePath:   "/src/sourcekit-lsp",
		BuildPath:     "/src/sourcekit-lsp/.build",
		Configuration: "debug",
		Toolchain:     "/toolchain/usr",
	}
}

func containsSequence(haystack []string, needle ...string) bool {
	for start := 0; start+len(needle) <= len(haystack); start++ {
		match := true
		for idx, item := range needle {
			if haystack[start+idx] != item {
				match = false
				break
			}
		}

		if match {
			return true
		}
	}
	return false
}
