// Package include finds and applies the optional include file, which may
// override any launch setting before the runtime is located.
//
// Include files are parsed, not executed. Two formats are understood:
//
//   - *.hcl: typed attributes (java_home, classpath, java_opts,
//     startup_sleep, env) with env.NAME references to the environment.
//   - anything else: shell-style assignments (NAME=value, export NAME=value)
//     with $NAME expansion and shell quoting. Conditionals, command
//     substitution and other shell statements are rejected.
package include

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mbrock/eslaunch/internal/config"
	"github.com/mbrock/eslaunch/internal/dirs"
)

// Resolve chooses at most one include file.
//
// If override is set it decides alone: a readable file is used, an empty
// value disables inclusion, and an unreadable path is skipped without
// error. Otherwise the first readable candidate is used, if any.
func Resolve(override string, overrideSet bool, candidates []string) (string, bool) {
	if overrideSet {
		if override == "" {
			slog.Debug("include disabled by empty override")
			return "", false
		}
		if dirs.Readable(override) {
			return override, true
		}
		slog.Debug("include override not readable, skipping", "path", override)
		return "", false
	}

	if p := dirs.FirstReadable(candidates); p != "" {
		return p, true
	}
	return "", false
}

// Apply parses the include file at path and writes its settings into env.
func Apply(path string, env config.Environment) error {
	slog.Debug("applying include", "path", path)
	if filepath.Ext(path) == ".hcl" {
		return applyHCL(path, env)
	}
	return applyShellFile(path, env)
}

// SyntaxError reports a statement the include parser does not support.
type SyntaxError struct {
	File string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}
