// eslaunch - start a search node with resolved JVM configuration
//
// Usage:
//
//	eslaunch [node args...]            Run the node in the foreground
//	eslaunch -d [node args...]         Start the node in the background
//	eslaunch --daemonize [node args]   Same as -d
//
// All arguments are passed through to the node. Configuration comes from
// the environment (JAVA_HOME, ES_CLASSPATH, ES_JAVA_OPTS, ES_JVM_OPTIONS,
// ES_INCLUDE, ES_STARTUP_SLEEP_TIME), the JVM options file and an optional
// include file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mbrock/eslaunch/internal/config"
	"github.com/mbrock/eslaunch/internal/dirs"
	"github.com/mbrock/eslaunch/internal/executor"
	"github.com/mbrock/eslaunch/internal/launcher"
	"github.com/mbrock/eslaunch/internal/logging"
)

func main() {
	env := config.FromOS()
	slog.SetDefault(logging.New(env.Get(logging.EnvLevel), os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[0], os.Args[1:], env, executor.Default())
	stop()
	if err != nil {
		os.Exit(exitCode(os.Stderr, err))
	}
}

func run(ctx context.Context, arg0 string, args []string, env config.Environment, exec executor.Executor) error {
	invocation, err := dirs.Invocation(arg0)
	if err != nil {
		return err
	}

	cfg, err := launcher.Resolve(launcher.ResolveOptions{
		Invocation: invocation,
		Env:        env,
	})
	if err != nil {
		return err
	}

	return launcher.New(exec).Launch(ctx, cfg, args)
}

// exitCode prints err and maps it to the process exit status.
func exitCode(stderr io.Writer, err error) int {
	var exitErr *launcher.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(stderr, exitErr.Message)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}
