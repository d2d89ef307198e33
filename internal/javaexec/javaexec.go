// Package javaexec locates the java executable used to run the node.
package javaexec

import (
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrNotFound is returned when neither JAVA_HOME nor PATH yields a usable java.
var ErrNotFound = errors.New("could not find any executable java binary. Please install java in your PATH or set JAVA_HOME")

const binary = "java"

// Locate prefers $JAVA_HOME/bin/java and falls back to searching pathList
// (a PATH-style, colon-separated list).
func Locate(javaHome, pathList string) (string, error) {
	if javaHome != "" {
		candidate := filepath.Join(javaHome, "bin", binary)
		if Executable(candidate) {
			return candidate, nil
		}
	}
	if p := LookPath(binary, pathList); p != "" {
		return p, nil
	}
	return "", ErrNotFound
}

// LookPath searches pathList for an executable named file. Empty entries
// mean the current directory, as in the shell.
func LookPath(file, pathList string) string {
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if Executable(candidate) {
			if abs, err := filepath.Abs(candidate); err == nil {
				return abs
			}
			return candidate
		}
	}
	return ""
}

// Executable reports whether path is a regular file the current user may
// execute.
func Executable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}
