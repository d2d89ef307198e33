package launcher

import (
	"log/slog"
	"strings"

	"github.com/mbrock/eslaunch/internal/config"
	"github.com/mbrock/eslaunch/internal/dirs"
	"github.com/mbrock/eslaunch/internal/envcheck"
	"github.com/mbrock/eslaunch/internal/include"
	"github.com/mbrock/eslaunch/internal/javaexec"
	"github.com/mbrock/eslaunch/internal/jvmoptions"
)

// ResolveOptions are the inputs to Resolve.
type ResolveOptions struct {
	// Invocation is the path the launcher was started through. It may be a
	// symlink, or a chain of them.
	Invocation string

	// Env is the environment snapshot. Resolve works on a copy.
	Env config.Environment

	// JVMOptionsCandidates and IncludeCandidates replace the default search
	// lists when non-nil.
	JVMOptionsCandidates []string
	IncludeCandidates    []string
}

// Resolve runs the configuration pipeline: locate the installation, reject
// deprecated variables, merge the JVM options file, apply the include file
// and locate java. Every failure is an *ExitError.
func Resolve(opts ResolveOptions) (*config.Config, error) {
	env := opts.Env.Clone()

	script, err := dirs.ResolveScript(opts.Invocation)
	if err != nil {
		return nil, fail("resolving launcher path: %v", err)
	}
	home, err := dirs.InstallRoot(script)
	if err != nil {
		return nil, fail("%v", err)
	}
	slog.Debug("resolved install root", "script", script, "home", home)

	if violations := envcheck.Check(env); len(violations) > 0 {
		var b strings.Builder
		envcheck.Report(&b, violations)
		return nil, &ExitError{Code: 1, Message: strings.TrimRight(b.String(), "\n")}
	}

	if err := dirs.CheckDistribution(home); err != nil {
		return nil, fail("%v", err)
	}
	env.Set(config.EnvHome, home)

	// Options file flags go first so ES_JAVA_OPTS can override them.
	jvmCandidates := opts.JVMOptionsCandidates
	if jvmCandidates == nil {
		jvmCandidates = dirs.JVMOptionsCandidates(home)
	}
	jvmPath := jvmoptions.Locate(env.Get(config.EnvJVMOptions), jvmCandidates)
	fileFlags, err := jvmoptions.ParseFile(jvmPath)
	if err != nil {
		return nil, fail("reading %s: %v", jvmPath, err)
	}
	_, javaOptsSet := env.Lookup(config.EnvJavaOpts)
	if merged := jvmoptions.Prepend(fileFlags, env.Get(config.EnvJavaOpts)); merged != "" || javaOptsSet {
		env.Set(config.EnvJavaOpts, merged)
	}
	slog.Debug("jvm options", "path", jvmPath, "flags", fileFlags)

	incCandidates := opts.IncludeCandidates
	if incCandidates == nil {
		incCandidates = dirs.IncludeCandidates(home, script, env.Get(config.EnvUserHome))
	}
	override, overrideSet := env.Lookup(config.EnvInclude)
	includePath, included := include.Resolve(override, overrideSet, incCandidates)
	if included {
		if err := include.Apply(includePath, env); err != nil {
			return nil, fail("applying include %s: %v", includePath, err)
		}
	}

	cfg, err := config.FromEnvironment(env, home, script)
	if err != nil {
		return nil, fail("%v", err)
	}
	cfg.JVMOptionsPath = jvmPath
	if included {
		cfg.IncludePath = includePath
	}

	java, err := javaexec.Locate(cfg.JavaHome, env.Get(config.EnvPath))
	if err != nil {
		return nil, fail("%v", err)
	}
	cfg.Java = java
	return cfg, nil
}
