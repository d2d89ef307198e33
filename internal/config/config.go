// Package config holds the resolved launch configuration for a search node.
//
// Values are threaded through the resolution pipeline as an Environment
// snapshot and read into a Config once every source (options file, include
// file, environment) has been applied.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Environment variables consumed by the launcher.
const (
	EnvJavaHome     = "JAVA_HOME"
	EnvClasspath    = "ES_CLASSPATH"
	EnvJavaOpts     = "ES_JAVA_OPTS"
	EnvJVMOptions   = "ES_JVM_OPTIONS"
	EnvInclude      = "ES_INCLUDE"
	EnvStartupSleep = "ES_STARTUP_SLEEP_TIME"
	EnvHome         = "ES_HOME"
	EnvPath         = "PATH"
	EnvUserHome     = "HOME"

	// EnvHostname is exported to the child with the short hostname.
	EnvHostname = "HOSTNAME"

	// Flag-injection variables the JVM or its wrappers may honour behind
	// our back.
	EnvJavaToolOptions = "JAVA_TOOL_OPTIONS"
	EnvJavaOptsLegacy  = "JAVA_OPTS"
)

// DefaultMainClass is the entry point handed to the JVM.
const DefaultMainClass = "org.elasticsearch.bootstrap.Elasticsearch"

// Config is the fully resolved configuration for one launch.
type Config struct {
	// Home is the installation root, derived from the launcher's location.
	Home string `json:"home"`
	// Script is the launcher's concrete path after following symlinks.
	Script string `json:"script"`

	JVMOptionsPath string `json:"jvm_options_path,omitempty"`
	IncludePath    string `json:"include_path,omitempty"`

	JavaHome string `json:"java_home,omitempty"`
	// Java is the runtime executable, filled in by the runtime locator.
	Java string `json:"java"`

	// JavaOpts is the flat flag list: options-file flags first, then
	// ES_JAVA_OPTS. Duplicates are kept; the JVM resolves them last-wins.
	JavaOpts  []string `json:"java_opts"`
	Classpath string   `json:"classpath"`
	MainClass string   `json:"main_class"`

	// StartupSleep is how long a detached launch waits before probing the child.
	StartupSleep time.Duration `json:"startup_sleep"`

	Env Environment `json:"-"`
}

// FromEnvironment reads the final environment snapshot into a Config.
func FromEnvironment(env Environment, home, script string) (*Config, error) {
	opts := SplitFlags(env.Get(EnvJavaOpts))

	sleep, err := ParseStartupSleep(env.Get(EnvStartupSleep))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", EnvStartupSleep, err)
	}

	return &Config{
		Home:         home,
		Script:       script,
		JavaHome:     env.Get(EnvJavaHome),
		JavaOpts:     opts,
		Classpath:    env.Get(EnvClasspath),
		MainClass:    DefaultMainClass,
		StartupSleep: sleep,
		Env:          env,
	}, nil
}

// SplitFlags splits a flag string on whitespace. Quotes and shell
// metacharacters are not interpreted, so a flag such as
// -Dhttp.nonProxyHosts=localhost|*.corp reaches the JVM unchanged.
func SplitFlags(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// ParseStartupSleep accepts seconds, whole or fractional ("5", "0.5"), or a
// duration ("1500ms").
func ParseStartupSleep(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	var d time.Duration
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, fmt.Errorf("invalid startup sleep %q", s)
		}
		d = time.Duration(secs * float64(time.Second))
	} else if d, err = time.ParseDuration(s); err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative startup sleep %q", s)
	}
	return d, nil
}
