// eslaunch-config - print the configuration eslaunch would launch with
//
// Usage:
//
//	eslaunch-config [flags] [-- node args...]
//
// Resolution runs exactly as it does for eslaunch, against the current
// environment, but nothing is started.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/mbrock/eslaunch/internal/config"
	"github.com/mbrock/eslaunch/internal/dirs"
	"github.com/mbrock/eslaunch/internal/launcher"
)

// report is the JSON shape printed with --json.
type report struct {
	*config.Config
	Mode string   `json:"mode"`
	Argv []string `json:"argv"`
}

func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[0], os.Args[1:], config.FromOS()); err != nil {
		var exitErr *launcher.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fatal("%v", err)
	}
}

func run(stdout, stderr io.Writer, arg0 string, args []string, env config.Environment) error {
	fs := flag.NewFlagSet("eslaunch-config", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		jsonFlag    bool
		scriptFlag  string
		includeFlag string
	)
	fs.BoolVarP(&jsonFlag, "json", "j", false, "Print the configuration as JSON")
	fs.StringVarP(&scriptFlag, "script", "s", "", "Resolve as if eslaunch were invoked at this path")
	fs.StringVarP(&includeFlag, "include", "i", "", "Include file to apply (overrides ES_INCLUDE; empty disables)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `eslaunch-config - print the resolved launch configuration

Usage:
  eslaunch-config [flags] [-- node args...]

Flags:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	invocation := scriptFlag
	if invocation == "" {
		var err error
		if invocation, err = dirs.Invocation(arg0); err != nil {
			return err
		}
	}

	env = env.Clone()
	if fs.Changed("include") {
		env.Set(config.EnvInclude, includeFlag)
	}

	cfg, err := launcher.Resolve(launcher.ResolveOptions{
		Invocation: invocation,
		Env:        env,
	})
	if err != nil {
		return err
	}

	nodeArgs := fs.Args()
	r := report{
		Config: cfg,
		Mode:   launcher.DetectMode(nodeArgs).String(),
		Argv:   launcher.Argv(cfg, nodeArgs),
	}

	if jsonFlag {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	printText(stdout, r)
	return nil
}

func printText(w io.Writer, r report) {
	row := func(name, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%-14s %s\n", name, value)
	}
	row("home", r.Home)
	row("script", r.Script)
	row("jvm.options", r.JVMOptionsPath)
	row("include", r.IncludePath)
	row("java", r.Java)
	row("java opts", strings.Join(r.JavaOpts, " "))
	row("classpath", r.Classpath)
	row("main class", r.MainClass)
	row("startup sleep", r.StartupSleep.String())
	row("mode", r.Mode)
	row("argv", strings.Join(r.Argv, " "))
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
