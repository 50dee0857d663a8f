// Package exec runs a one-off remote command from the terminal.
package exec

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"

	cmdutil "github.com/hostwire/hostwire/pkg/cmd/util"
	"github.com/hostwire/hostwire/pkg/config"
	hwerrors "github.com/hostwire/hostwire/pkg/errors"
	"github.com/hostwire/hostwire/pkg/registry"
	"github.com/hostwire/hostwire/pkg/runner"
	"github.com/hostwire/hostwire/pkg/terminal"
)

type execOptions struct {
	on      string
	all     bool
	timeout int
	encoded bool
}

func NewCmdExec(t *terminal.Terminal) *cobra.Command {
	opts := execOptions{}

	cmd := &cobra.Command{
		Use:   "exec <command>",
		Short: "Execute a command on a remote host",
		Long:  "Execute a command on one host from the ssh config, or on every host with --all.",
		Example: `  hostwire exec --on web-1 "uptime"
  hostwire exec --all "uname -r"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := RunExec(cmd.Context(), t, args[0], opts)
			if err != nil {
				return hwerrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.on, "on", "", "host alias to run on")
	cmd.Flags().BoolVar(&opts.all, "all", false, "run on every host in the registry")
	cmd.Flags().IntVar(&opts.timeout, "timeout", config.DefaultCommandTimeoutSeconds, "timeout in seconds")
	cmd.Flags().BoolVar(&opts.encoded, "encoded", false, "base64-encode the command across the ssh boundary")
	return cmd
}

func RunExec(ctx context.Context, t *terminal.Terminal, command string, opts execOptions) error {
	log, err := cmdutil.NewLogger()
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	reg, err := cmdutil.LoadRegistry(log)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}

	run := runner.NewDefaultRunner(log.Named("runner"))

	if opts.all {
		return runOnAll(ctx, t, reg, run, command, opts)
	}

	alias, err := pickHost(reg, opts.on)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = fmt.Sprintf(" running on %s", alias)
	s.Start()
	result, err := run.RunCommand(ctx, alias, command, runner.CommandOptions{
		TimeoutSeconds: opts.timeout,
		Encoded:        opts.encoded,
	})
	s.Stop()
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}

	printResult(t, alias, result)
	if !result.Success {
		return hwerrors.Errorf("command exited with code %d", result.ExitCode)
	}
	return nil
}

func runOnAll(ctx context.Context, t *terminal.Terminal, reg *registry.Registry, run runner.Runner, command string, opts execOptions) error {
	results := lo.Map(
		reg.List(),
		func(h registry.HostSummary, _ int) mo.Result[runner.Result] {
			result, err := run.RunCommand(ctx, h.Alias, command, runner.CommandOptions{
				TimeoutSeconds: opts.timeout,
				Encoded:        opts.encoded,
			})
			if err == nil {
				printResult(t, h.Alias, result)
			} else {
				t.Errprint(err, h.Alias)
			}
			return mo.TupleToResult(result, err)
		},
	)
	err := lo.Reduce(
		results,
		func(acc error, res mo.Result[runner.Result], _ int) error {
			if res.IsError() {
				return multierror.Append(acc, res.Error())
			}
			return acc
		},
		nil,
	)
	if err != nil {
		return hwerrors.WrapAndTrace(err)
	}
	return nil
}

func pickHost(reg *registry.Registry, requested string) (string, error) {
	if requested != "" {
		if _, ok := reg.Lookup(requested); !ok {
			return "", hwerrors.Errorf("host not found in ssh config: %s", requested)
		}
		return requested, nil
	}

	summaries := reg.List()
	if len(summaries) == 0 {
		return "", hwerrors.New("no hosts found in ssh config")
	}
	if len(summaries) == 1 {
		return summaries[0].Alias, nil
	}

	choices := lo.Map(summaries, func(h registry.HostSummary, _ int) string {
		return fmt.Sprintf("%s (%s@%s:%d)", h.Alias, h.User, h.Hostname, h.Port)
	})
	selection := terminal.PromptSelectInput(terminal.PromptSelectContent{
		Label: "Select host",
		Items: choices,
	})
	for i, choice := range choices {
		if choice == selection {
			return summaries[i].Alias, nil
		}
	}
	return "", hwerrors.New("invalid selection")
}

func printResult(t *terminal.Terminal, alias string, result runner.Result) {
	header := t.Green("%s", alias)
	if !result.Success {
		header = t.Red("%s (exit %d)", alias, result.ExitCode)
	}
	t.Vprint(header)
	if result.Stdout != "" {
		t.Vprint(result.Stdout)
	}
	if result.Stderr != "" {
		t.Eprint(t.Yellow(result.Stderr))
	}
}
