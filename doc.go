// Package daemoncmd turns commands into well-behaved Unix daemons and
// manages them through pid files.
//
// A Controller is bound to one pid file and offers the classic quartet of
// operations: Start detaches a copy of the current process, records its pid,
// and execs a target command in it; Stop signals the recorded pid with
// SIGTERM, escalating to SIGKILL; Restart chains the two; Status reports
// whether the recorded pid is alive. Daemonize is the lower-level entry
// point for programs that want to detach themselves without a pid file.
//
// # Basic Usage
//
//	import "github.com/todddeluca/daemoncmd"
//
//	ctx := context.Background()
//
//	ctl, err := daemoncmd.NewController("/var/run/myapp.pid")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cmd := daemoncmd.Command{
//	    Path:   "myapp",
//	    Args:   []string{"--port", "8080"},
//	    Stdout: daemoncmd.AppendTo("/var/log/myapp.log"),
//	}
//	if err := ctl.Start(ctx, cmd); err != nil {
//	    log.Fatal(err)
//	}
//
// # Re-execution
//
// Go has no usable fork, so detaching works by re-executing the current
// binary twice with the same arguments, carrying a private environment
// variable through the hops. The first copy starts a new session and exits;
// the second is the daemon. This puts one requirement on callers: main must
// reach the Start, Restart, or Daemonize call deterministically for a given
// command line, because each copy runs main from the top. WasReborn reports
// which kind of invocation is running.
//
// # Self-daemonizing Programs
//
//	func main() {
//	    if err := daemoncmd.Daemonize(
//	        daemoncmd.WithStdout(daemoncmd.AppendTo("/var/log/myapp.log")),
//	    ); err != nil {
//	        log.Fatal(err)
//	    }
//	    // Only the detached daemon reaches this point.
//	    serve()
//	}
//
// The package is Unix-only: it relies on sessions, signals, and exec
// semantics that have no Windows equivalent.
package daemoncmd
