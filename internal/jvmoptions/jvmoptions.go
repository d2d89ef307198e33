// Package jvmoptions reads the JVM options file: a plain list of flags, one
// or more per line. Only lines starting with '-' are flags; comments, blank
// lines and indented lines are skipped.
package jvmoptions

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/mbrock/eslaunch/internal/dirs"
)

const flagMarker = '-'

// Locate picks the options file. An explicit path wins even if it does not
// exist (Parse then yields no flags); otherwise the first readable
// candidate is used.
func Locate(explicit string, candidates []string) string {
	if explicit != "" {
		return explicit
	}
	return dirs.FirstReadable(candidates)
}

// ParseFile returns the flag lines of path joined by single spaces.
// An empty path or a missing/unreadable file yields "".
func ParseFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", nil
	}
	defer f.Close()
	if info, err := f.Stat(); err != nil || info.IsDir() {
		return "", nil
	}
	return Parse(f)
}

// Parse keeps lines whose first byte is the flag marker, in order.
func Parse(r io.Reader) (string, error) {
	var flags []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) == 0 || line[0] != flagMarker {
			continue
		}
		flags = append(flags, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.Join(flags, " "), nil
}

// Prepend places file flags ahead of the caller's own flag string so that
// the caller's flags come later and win in the JVM's last-wins parsing.
func Prepend(fileFlags, callerFlags string) string {
	return strings.TrimSpace(fileFlags + " " + callerFlags)
}
