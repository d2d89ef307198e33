package launcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mbrock/eslaunch/internal/config"
	"github.com/mbrock/eslaunch/internal/executor"
)

const fakeJavaPath = "/jdk/bin/java"

func requireExitError(t *testing.T, err error) *ExitError {
	t.Helper()
	require.Error(t, err)
	var ee *ExitError
	require.True(t, errors.As(err, &ee), "expected *ExitError, got %T: %v", err, err)
	require.Equal(t, 1, ee.Code)
	return ee
}

func TestDetectMode(t *testing.T) {
	cases := []struct {
		args []string
		want Mode
	}{
		{nil, ModeAttached},
		{[]string{"-p", "/var/run/es.pid", "-d"}, ModeDetached},
		{[]string{"-d", "-p", "/var/run/es.pid"}, ModeDetached},
		{[]string{"-Ecluster.name=x", "-d", "-p", "pid"}, ModeDetached},
		{[]string{"--daemonize"}, ModeDetached},
		{[]string{"--daemonized"}, ModeAttached},
		{[]string{"-dp"}, ModeAttached},
		{[]string{"-Enode.name=-d"}, ModeAttached},
		{[]string{"--daemonize=true"}, ModeAttached},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, DetectMode(tc.args), "args %q", tc.args)
	}
	require.Equal(t, "detached", ModeDetached.String())
	require.Equal(t, "attached", ModeAttached.String())
}

func TestShortHostname(t *testing.T) {
	require.Equal(t, "node1", ShortHostname("node1.dc1.example.com"))
	require.Equal(t, "node1", ShortHostname("node1"))
	require.Equal(t, "", ShortHostname(""))
}

func TestArgv(t *testing.T) {
	cfg := &config.Config{
		Home:      "/es",
		Java:      fakeJavaPath,
		JavaOpts:  []string{"-Xms1g", "-Xmx1g", "-Xmx2g"},
		Classpath: "/es/lib/*",
	}
	got := Argv(cfg, []string{"-Ecluster.name=c", "-d"})
	want := []string{
		fakeJavaPath, "-Xms1g", "-Xmx1g", "-Xmx2g",
		"-Des.path.home=/es", "-cp", "/es/lib/*",
		config.DefaultMainClass, "-Ecluster.name=c", "-d",
	}
	require.Equal(t, want, got)
}

// testLauncher returns a Launcher wired to a fake executor and a stderr buffer.
func testLauncher(t *testing.T) (*Launcher, *executor.FakeExecutor, *bytes.Buffer, *[]int) {
	t.Helper()
	exec := executor.NewFakeExecutor()
	t.Cleanup(exec.Close)

	var stderr bytes.Buffer
	var notified []int
	l := &Launcher{
		Executor: exec,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stderr:   &stderr,
		Hostname: func() (string, error) { return "node1.example.com", nil },
		Notify: func(pid int) (bool, error) {
			notified = append(notified, pid)
			return true, nil
		},
	}
	return l, exec, &stderr, &notified
}

func baseConfig() *config.Config {
	return &config.Config{
		Home:      "/es",
		Java:      fakeJavaPath,
		JavaOpts:  []string{"-Xmx1g"},
		Classpath: "/es/lib/*",
		MainClass: config.DefaultMainClass,
		Env: config.Environment{
			"PATH":              "/usr/bin",
			"JAVA_TOOL_OPTIONS": "-javaagent:/agent.jar",
			"JAVA_OPTS":         "-Xmx8g",
		},
	}
}

func TestLaunch_MissingClasspathSpawnsNothing(t *testing.T) {
	l, exec, _, _ := testLauncher(t)
	exec.RegisterCommand(fakeJavaPath, func(ctx context.Context, argv, env []string) int { return 0 })

	cfg := baseConfig()
	cfg.Classpath = ""

	for _, args := range [][]string{nil, {"-d"}} {
		ee := requireExitError(t, l.Launch(context.Background(), cfg, args))
		require.Contains(t, ee.Message, "ES_CLASSPATH")
	}
	require.Empty(t, exec.Execs())
	require.Empty(t, exec.Starts())
}

func TestLaunch_Attached(t *testing.T) {
	l, exec, stderr, notified := testLauncher(t)
	exec.RegisterCommand(fakeJavaPath, func(ctx context.Context, argv, env []string) int { return 0 })

	cfg := baseConfig()
	require.NoError(t, l.Launch(context.Background(), cfg, []string{"-Ecluster.name=c"}))

	execs := exec.Execs()
	require.Len(t, execs, 1)
	require.Empty(t, exec.Starts())
	require.Empty(t, *notified)

	call := execs[0]
	require.Equal(t, fakeJavaPath, call.Path)
	require.Equal(t, Argv(cfg, []string{"-Ecluster.name=c"}), call.Argv)

	require.Contains(t, call.Env, "HOSTNAME=node1")
	require.Contains(t, call.Env, "JAVA_OPTS=-Xmx8g")
	require.False(t, slices.ContainsFunc(call.Env, func(kv string) bool {
		return strings.HasPrefix(kv, "JAVA_TOOL_OPTIONS=")
	}), "JAVA_TOOL_OPTIONS leaked into the child: %v", call.Env)

	// The resolved config keeps its own snapshot untouched.
	require.Equal(t, "-javaagent:/agent.jar", cfg.Env.Get("JAVA_TOOL_OPTIONS"))

	require.Equal(t, "Warning: Ignoring JAVA_TOOL_OPTIONS=-javaagent:/agent.jar\n"+
		"Please pass JVM parameters via ES_JAVA_OPTS instead\n"+
		"Warning: Ignoring JAVA_OPTS=-Xmx8g\n"+
		"Please pass JVM parameters via ES_JAVA_OPTS instead\n", stderr.String())
}

func TestLaunch_AttachedExecFailure(t *testing.T) {
	l, _, _, _ := testLauncher(t)
	// Nothing registered: the fake exec fails like a missing binary would.
	requireExitError(t, l.Launch(context.Background(), baseConfig(), nil))
}

func TestLaunch_DetachedChildDiesDuringStartup(t *testing.T) {
	l, exec, _, notified := testLauncher(t)
	exec.RegisterCommand(fakeJavaPath, func(ctx context.Context, argv, env []string) int { return 1 })

	cfg := baseConfig()
	cfg.StartupSleep = 200 * time.Millisecond

	ee := requireExitError(t, l.Launch(context.Background(), cfg, []string{"-d"}))
	require.Contains(t, ee.Message, "exited during startup")
	require.Len(t, exec.Starts(), 1)
	require.Empty(t, exec.Execs())
	require.Empty(t, *notified)
}

func TestLaunch_DetachedChildSurvives(t *testing.T) {
	l, exec, _, notified := testLauncher(t)
	exec.RegisterCommand(fakeJavaPath, func(ctx context.Context, argv, env []string) int {
		<-ctx.Done()
		return 0
	})

	cfg := baseConfig()
	cfg.StartupSleep = 50 * time.Millisecond

	require.NoError(t, l.Launch(context.Background(), cfg, []string{"-p", "/var/run/es.pid", "--daemonize"}))

	starts := exec.Starts()
	require.Len(t, starts, 1)
	require.Equal(t, Argv(cfg, []string{"-p", "/var/run/es.pid", "--daemonize"}), starts[0].Argv)
	require.Len(t, *notified, 1)
}

func TestLaunch_DetachedSpawnFailure(t *testing.T) {
	l, exec, _, _ := testLauncher(t)

	ee := requireExitError(t, l.Launch(context.Background(), baseConfig(), []string{"-d"}))
	require.Contains(t, ee.Message, "starting")
	require.Empty(t, exec.Starts())
}

func TestLaunch_DetachedInterruptedDuringSleep(t *testing.T) {
	l, exec, _, notified := testLauncher(t)
	exec.RegisterCommand(fakeJavaPath, func(ctx context.Context, argv, env []string) int {
		<-ctx.Done()
		return 0
	})

	cfg := baseConfig()
	cfg.StartupSleep = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ee := requireExitError(t, l.Launch(ctx, cfg, []string{"-d"}))
	require.Contains(t, ee.Message, "interrupted")
	require.Empty(t, *notified)
}

// writeScript writes an executable shell script.
func writeScript(t *testing.T, path, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestLaunch_DetachedRealProcess(t *testing.T) {
	dir := t.TempDir()
	l := &Launcher{
		Executor: executor.Default(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stderr:   io.Discard,
		Hostname: func() (string, error) { return "node1", nil },
	}

	cfg := baseConfig()
	cfg.StartupSleep = 300 * time.Millisecond

	cfg.Java = writeScript(t, filepath.Join(dir, "failing", "java"), "exit 1")
	ee := requireExitError(t, l.Launch(context.Background(), cfg, []string{"-d"}))
	require.Contains(t, ee.Message, "exited during startup")

	cfg.Java = writeScript(t, filepath.Join(dir, "healthy", "java"), "sleep 1")
	require.NoError(t, l.Launch(context.Background(), cfg, []string{"-d"}))
}
