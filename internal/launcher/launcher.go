// Package launcher assembles the runtime invocation and starts it, either
// in place of the launcher (attached) or as a background child that must
// survive a startup grace period (detached).
package launcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mbrock/eslaunch/internal/config"
	"github.com/mbrock/eslaunch/internal/executor"
	"github.com/mbrock/eslaunch/internal/notify"
)

// Launcher starts the runtime described by a resolved Config.
type Launcher struct {
	Executor executor.Executor
	Logger   *slog.Logger

	// Stderr receives user-facing warnings; os.Stderr by default.
	Stderr io.Writer

	// Hostname returns the system hostname; os.Hostname by default.
	Hostname func() (string, error)

	// Notify is called with the child's PID after a confirmed detached
	// start. May be nil.
	Notify func(pid int) (bool, error)
}

// New returns a Launcher using exec and the default logger.
func New(exec executor.Executor) *Launcher {
	return &Launcher{
		Executor: exec,
		Logger:   slog.Default(),
		Stderr:   os.Stderr,
		Hostname: os.Hostname,
		Notify:   notify.MainPID,
	}
}

// Launch starts the runtime. In attached mode a successful Launch does not
// return. In detached mode it returns nil once the child has survived
// cfg.StartupSleep.
func (l *Launcher) Launch(ctx context.Context, cfg *config.Config, args []string) error {
	if cfg.Classpath == "" {
		return fail("you must set the %s var", config.EnvClasspath)
	}

	env := l.childEnv(cfg)
	argv := Argv(cfg, args)
	mode := DetectMode(args)
	l.logger().Debug("launching", "mode", mode, "java", cfg.Java, "argv", argv)

	if mode == ModeAttached {
		if err := l.Executor.Exec(cfg.Java, argv, env.List()); err != nil {
			return fail("%v", err)
		}
		return nil
	}
	return l.detach(ctx, cfg, argv, env)
}

func (l *Launcher) detach(ctx context.Context, cfg *config.Config, argv []string, env config.Environment) error {
	proc, err := l.Executor.Start(cfg.Java, argv, env.List())
	if err != nil {
		return fail("starting %s: %v", cfg.Java, err)
	}
	pid := proc.Pid()
	l.logger().Debug("started detached", "pid", pid, "sleep", cfg.StartupSleep)

	if cfg.StartupSleep > 0 {
		timer := time.NewTimer(cfg.StartupSleep)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return fail("interrupted while waiting for process %d to start", pid)
		case <-timer.C:
		}
	}

	if !proc.Alive() {
		return fail("process %d exited during startup", pid)
	}

	if l.Notify != nil {
		if _, err := l.Notify(pid); err != nil {
			l.logger().Warn("notifying service manager", "error", err)
		}
	}
	if err := proc.Release(); err != nil {
		l.logger().Debug("releasing child", "pid", pid, "error", err)
	}
	return nil
}

// childEnv prepares the environment handed to the runtime.
func (l *Launcher) childEnv(cfg *config.Config) config.Environment {
	env := cfg.Env.Clone()

	if v := env.Get(config.EnvJavaToolOptions); v != "" {
		l.warnIgnored(config.EnvJavaToolOptions, v)
		env.Unset(config.EnvJavaToolOptions)
	}
	// JAVA_OPTS is not read by the JVM, so it is left in place.
	if v := env.Get(config.EnvJavaOptsLegacy); v != "" {
		l.warnIgnored(config.EnvJavaOptsLegacy, v)
	}

	hostname := l.Hostname
	if hostname == nil {
		hostname = os.Hostname
	}
	if host, err := hostname(); err != nil {
		l.logger().Debug("reading hostname", "error", err)
	} else {
		env.Set(config.EnvHostname, ShortHostname(host))
	}
	return env
}

func (l *Launcher) warnIgnored(name, value string) {
	w := l.Stderr
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Warning: Ignoring %s=%s\n", name, value)
	fmt.Fprintf(w, "Please pass JVM parameters via %s instead\n", config.EnvJavaOpts)
	l.logger().Debug("ignoring "+name, "value", value)
}

func (l *Launcher) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// Argv builds the runtime's argument vector:
// java <opts...> -Des.path.home=<home> -cp <classpath> <main class> <args...>
func Argv(cfg *config.Config, args []string) []string {
	mainClass := cfg.MainClass
	if mainClass == "" {
		mainClass = config.DefaultMainClass
	}
	argv := make([]string, 0, len(cfg.JavaOpts)+len(args)+5)
	argv = append(argv, cfg.Java)
	argv = append(argv, cfg.JavaOpts...)
	argv = append(argv,
		fmt.Sprintf("-Des.path.home=%s", cfg.Home),
		"-cp", cfg.Classpath,
		mainClass,
	)
	return append(argv, args...)
}

// ShortHostname returns the first label of host.
func ShortHostname(host string) string {
	short, _, _ := strings.Cut(host, ".")
	return short
}
