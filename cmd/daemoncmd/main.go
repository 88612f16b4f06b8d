// Command daemoncmd starts, stops, restarts, and reports on daemonized
// commands identified by pid files.
//
// Exit codes follow init-script conventions so scripts can branch without
// parsing output: 0 means the request succeeded (for status: the daemon is
// running), 1 means an operational error, 2 means the daemon was already
// running, 3 means it was not running.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/todddeluca/daemoncmd"
)

const (
	exitOK             = 0
	exitError          = 1
	exitAlreadyRunning = 2
	exitNotRunning     = 3
)

// silentExit carries an exit code for conditions that were already reported
// on stdout, so main does not print them again as errors.
type silentExit int

func (e silentExit) Error() string {
	return fmt.Sprintf("exit code %d", int(e))
}

var (
	pidFilePath string
	verbose     bool

	stdinPath  string
	stdoutPath string
	stderrPath string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "daemoncmd",
		Short:         "Run commands as daemons controlled through pid files",
		Long:          "daemoncmd detaches a command from the terminal into its own session,\nrecords its pid in a pid file, and controls it through that file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging()
		},
	}

	root.PersistentFlags().StringVar(&pidFilePath, "pidfile", "", "path to the pid file identifying the daemon (required)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log internal progress to stderr")
	_ = root.MarkPersistentFlagRequired("pidfile")

	root.AddCommand(newStartCmd())
	root.AddCommand(newStopCmd())
	root.AddCommand(newRestartCmd())
	root.AddCommand(newStatusCmd())

	return root
}

func configureLogging() {
	if verbose {
		daemoncmd.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		return
	}
	daemoncmd.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// addRedirectFlags registers the stream redirection flags used by start and
// restart. Flag interspersing is disabled on these commands so flags after
// the command name belong to the daemonized command, not to daemoncmd.
func addRedirectFlags(cmd *cobra.Command) {
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&stdinPath, "stdin", "", "file to connect to the daemon's stdin (default: /dev/null)")
	cmd.Flags().StringVar(&stdoutPath, "stdout", "", "file to append the daemon's stdout to (default: /dev/null)")
	cmd.Flags().StringVar(&stderrPath, "stderr", "", "file to append the daemon's stderr to (default: /dev/null)")
}

func redirectFor(path string) daemoncmd.Redirect {
	if path == "" {
		return daemoncmd.Discard()
	}
	return daemoncmd.AppendTo(path)
}

func commandFromArgs(args []string) daemoncmd.Command {
	return daemoncmd.Command{
		Path:   args[0],
		Args:   args[1:],
		Stdin:  redirectFor(stdinPath),
		Stdout: redirectFor(stdoutPath),
		Stderr: redirectFor(stderrPath),
	}
}

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "start [flags] -- CMD [ARGS...]",
		Short:         "Daemonize a command and record its pid",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), args, false)
		},
	}
	addRedirectFlags(cmd)
	return cmd
}

func newRestartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "restart [flags] -- CMD [ARGS...]",
		Short:         "Stop the recorded daemon and start a command in its place",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), args, true)
		},
	}
	addRedirectFlags(cmd)
	return cmd
}

func runStart(ctx context.Context, args []string, restart bool) error {
	ctl, err := daemoncmd.NewController(pidFilePath)
	if err != nil {
		return err
	}

	// The re-executed copies run this function again on their way to
	// becoming the daemon; only the original invocation talks to the
	// terminal.
	if !daemoncmd.WasReborn() {
		fmt.Println("Starting process.")
	}

	cmd := commandFromArgs(args)
	if restart {
		err = ctl.Restart(ctx, cmd)
	} else {
		err = ctl.Start(ctx, cmd)
	}
	if err != nil {
		return err
	}

	st, err := ctl.Status(ctx)
	if err != nil {
		return err
	}
	printStatus(st)
	return nil
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "stop",
		Short:         "Terminate the recorded daemon and remove its pid file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := daemoncmd.NewController(pidFilePath)
			if err != nil {
				return err
			}

			err = ctl.Stop(cmd.Context())
			if errors.Is(err, daemoncmd.ErrNotRunning) {
				fmt.Println("process stopped")
				return silentExit(exitNotRunning)
			}
			if err != nil {
				return err
			}

			fmt.Println("process stopped")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Report whether the recorded daemon is running",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := daemoncmd.NewController(pidFilePath)
			if err != nil {
				return err
			}

			st, err := ctl.Status(cmd.Context())
			if err != nil {
				return err
			}

			printStatus(st)
			if st.State != daemoncmd.StateRunning {
				return silentExit(exitNotRunning)
			}
			return nil
		},
	}
}

func printStatus(st daemoncmd.Status) {
	switch {
	case st.State == daemoncmd.StateStale:
		fmt.Println("process stopped (stale pid file removed)")
	case st.State != daemoncmd.StateRunning:
		fmt.Println("process stopped")
	case st.Name != "":
		fmt.Printf("process running; pid=%d (%s)\n", st.Pid, st.Name)
	default:
		fmt.Printf("process running; pid=%d\n", st.Pid)
	}
}

// exitCodeFor maps an operation error to the documented exit code contract.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, daemoncmd.ErrAlreadyRunning):
		return exitAlreadyRunning
	case errors.Is(err, daemoncmd.ErrNotRunning):
		return exitNotRunning
	default:
		return exitError
	}
}

func run() int {
	err := newRootCmd().Execute()
	if err == nil {
		return exitOK
	}

	var silent silentExit
	if errors.As(err, &silent) {
		return int(silent)
	}

	fmt.Fprintln(os.Stderr, "daemoncmd:", err)
	return exitCodeFor(err)
}

func main() {
	os.Exit(run())
}
