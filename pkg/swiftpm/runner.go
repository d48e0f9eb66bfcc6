package swiftpm

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Command is a single subprocess invocation.
type Command struct {
	Args []string
	// Env holds overrides applied on top of the process environment. A nil map passes the process
	// environment through unchanged.
	Env map[string]string
	Dir string
	// Echo logs the command line before it runs.
	Echo bool
	// Quiet captures stderr instead of forwarding it. Only used by Output.
	Quiet bool
}

// Runner executes commands. Every call blocks until the process exits.
type Runner interface {
	// Run executes the command with its output forwarded to the console.
	Run(ctx context.Context, cmd Command) error
	// Output executes the command and returns its trimmed stdout.
	Output(ctx context.Context, cmd Command) (string, error)
}

// ShellRunner runs commands through the mvdan.cc/sh interpreter.
type ShellRunner struct {
	// Stdout receives the output of Run. Stderr of Run is merged into it.
	Stdout io.Writer
	// Stderr receives the error output of non-quiet Output calls.
	Stderr io.Writer
	// Environ returns the inherited environment. Defaults to os.Environ.
	Environ func() []string
}

// NewShellRunner returns a runner attached to the process' stdout and stderr.
func NewShellRunner() *ShellRunner {
	return &ShellRunner{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ,
	}
}

var defaultExecHandler = interp.DefaultExecHandler(2 * time.Second)

// Run implements Runner
func (r *ShellRunner) Run(ctx context.Context, cmd Command) error {
	return r.exec(ctx, cmd, r.Stdout, r.Stdout)
}

// Output implements Runner
func (r *ShellRunner) Output(ctx context.Context, cmd Command) (string, error) {
	stdout := strings.Builder{}
	stderr := strings.Builder{}

	var errOut io.Writer = &stderr
	if !cmd.Quiet {
		errOut = r.Stderr
	}

	err := r.exec(ctx, cmd, &stdout, errOut)
	if err != nil {
		var cmdErr *CommandError
		if cmd.Quiet && eris.As(err, &cmdErr) {
			cmdErr.Stderr = strings.TrimSpace(stderr.String())
		}
		return "", err
	}

	return strings.TrimSpace(stdout.String()), nil
}

func (r *ShellRunner) exec(ctx context.Context, cmd Command, stdout, stderr io.Writer) error {
	if len(cmd.Args) == 0 {
		return eris.New("empty command")
	}

	script, err := QuoteCommand(cmd.Args)
	if err != nil {
		return err
	}

	if cmd.Echo {
		log(ctx).Info().Bool("command", true).Msg(script)
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(script), cmd.Args[0])
	if err != nil {
		return eris.Wrapf(err, "failed to parse command %s", script)
	}

	environ := os.Environ
	if r.Environ != nil {
		environ = r.Environ
	}

	runner, err := interp.New(
		interp.Dir(cmd.Dir),
		interp.Env(expand.ListEnviron(mergeEnv(environ(), cmd.Env)...)),
		interp.ExecHandler(defaultExecHandler),
		interp.StdIO(nil, stdout, stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return eris.Wrap(err, "Failed to initialize runner")
	}

	for _, stmt := range file.Stmts {
		err = runner.Run(ctx, stmt)
		if err != nil {
			cmdErr := &CommandError{
				Args:   cmd.Args,
				Status: -1,
				Err:    err,
			}
			if status, ok := interp.IsExitStatus(err); ok {
				cmdErr.Status = int(status)
			}
			return cmdErr
		}

		if runner.Exited() {
			break
		}
	}

	return nil
}

// QuoteCommand renders args as a single shell command line.
func QuoteCommand(args []string) (string, error) {
	quoted := make([]string, len(args))
	for idx, arg := range args {
		value, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", eris.Wrapf(err, "failed to quote argument %q", arg)
		}
		quoted[idx] = value
	}

	return strings.Join(quoted, " "), nil
}

// mergeEnv layers overrides on top of base. Overridden entries are dropped from base to avoid conflicts.
func mergeEnv(base []string, overrides map[string]string) []string {
	if overrides == nil {
		return base
	}

	result := make([]string, 0, len(base)+len(overrides))
	for _, item := range base {
		name := strings.SplitN(item, "=", 2)[0]
		if runtime.GOOS == "windows" {
			name = strings.ToUpper(name)
		}

		if _, present := overrides[name]; !present {
			result = append(result, item)
		}
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result = append(result, fmt.Sprintf("%s=%s", name, overrides[name]))
	}

	return result
}
