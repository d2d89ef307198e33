package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromList_LaterDuplicatesWin(t *testing.T) {
	env := FromList([]string{"A=1", "B=x=y", "A=2", "=ignored", "EMPTY="})

	require.Equal(t, "2", env.Get("A"))
	require.Equal(t, "x=y", env.Get("B"))

	v, ok := env.Lookup("EMPTY")
	require.True(t, ok, "empty variable should still be set")
	require.Equal(t, "", v)

	_, ok = env.Lookup("MISSING")
	require.False(t, ok)
}

func TestEnvironment_ListSortedAndCloneIndependent(t *testing.T) {
	env := Environment{"B": "2", "A": "1"}
	clone := env.Clone()
	clone.Set("C", "3")
	clone.Unset("A")

	require.Equal(t, []string{"A=1", "B=2"}, env.List())
	require.Equal(t, []string{"B=2", "C=3"}, clone.List())
}

func TestParseStartupSleep(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		err  bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"5", 5 * time.Second, false},
		{"0.5", 500 * time.Millisecond, false},
		{"1.25", 1250 * time.Millisecond, false},
		{"-0.5", 0, true},
		{"NaN", 0, true},
		{"1500ms", 1500 * time.Millisecond, false},
		{"-1", 0, true},
		{"-2s", 0, true},
		{"soon", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseStartupSleep(tc.in)
		if tc.err {
			require.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestFromEnvironment(t *testing.T) {
	env := Environment{
		EnvJavaOpts:     "-Xms1g\t-Xmx1g  -XX:+HeapDumpOnOutOfMemoryError",
		EnvClasspath:    "/es/lib/*",
		EnvJavaHome:     "/opt/jdk",
		EnvStartupSleep: "2",
	}

	cfg, err := FromEnvironment(env, "/es", "/es/bin/eslaunch")
	require.NoError(t, err)

	require.Equal(t, "/es", cfg.Home)
	require.Equal(t, "/es/bin/eslaunch", cfg.Script)
	require.Equal(t, []string{"-Xms1g", "-Xmx1g", "-XX:+HeapDumpOnOutOfMemoryError"}, cfg.JavaOpts)
	require.Equal(t, "/es/lib/*", cfg.Classpath)
	require.Equal(t, "/opt/jdk", cfg.JavaHome)
	require.Equal(t, DefaultMainClass, cfg.MainClass)
	require.Equal(t, 2*time.Second, cfg.StartupSleep)
}

func TestFromEnvironment_BadSleep(t *testing.T) {
	_, err := FromEnvironment(Environment{EnvStartupSleep: "later"}, "/es", "/es/bin/eslaunch")
	require.ErrorContains(t, err, EnvStartupSleep)
}

func TestSplitFlags(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"-Xms1g -Dhttp.nonProxyHosts=localhost|*.corp -Xmx2g",
			[]string{"-Xms1g", "-Dhttp.nonProxyHosts=localhost|*.corp", "-Xmx2g"}},
		{"-Xms1g -Dx=a;b -Xmx2g", []string{"-Xms1g", "-Dx=a;b", "-Xmx2g"}},
		{"-Dnode.attr.owner=O'Brien -Xmx2g", []string{"-Dnode.attr.owner=O'Brien", "-Xmx2g"}},
		{`-Da="b -Xmx2g`, []string{`-Da="b`, "-Xmx2g"}},
		{"-Dr=a&b -Dlog=>out -Din=<in", []string{"-Dr=a&b", "-Dlog=>out", "-Din=<in"}},
		{"\t-Xss1m\n-Xmx1g ", []string{"-Xss1m", "-Xmx1g"}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, SplitFlags(tc.in), "input %q", tc.in)
	}
}
