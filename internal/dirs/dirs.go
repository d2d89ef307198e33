// Package dirs resolves where the launcher lives and where it looks for
// configuration. It follows the launcher's symlink chain to find the
// installation root and builds the ordered candidate lists for the JVM
// options file and the include file.
package dirs

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// IncludeName is the base name of the include file searched for in the
// shared, install-local and launcher-local locations.
const IncludeName = "elasticsearch.in.sh"

// Invocation turns argv[0] into a path we can follow. A bare command name
// was found through PATH, so we look it up the same way.
func Invocation(arg0 string) (string, error) {
	if strings.ContainsRune(arg0, os.PathSeparator) {
		return arg0, nil
	}
	p, err := exec.LookPath(arg0)
	if err != nil {
		return "", fmt.Errorf("locating %s: %w", arg0, err)
	}
	return p, nil
}

// ResolveScript follows symlinks starting at path until it reaches a
// non-link. Relative link targets are interpreted against the directory
// holding the link. The chain length is not bounded, so a cyclic chain
// never returns.
func ResolveScript(path string) (string, error) {
	for {
		info, err := os.Lstat(path)
		if err != nil {
			return "", err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}
		link, err := os.Readlink(path)
		if err != nil {
			return "", err
		}
		if filepath.IsAbs(link) {
			path = link
		} else {
			path = filepath.Join(filepath.Dir(path), link)
		}
	}
}

// InstallRoot returns the parent of the directory holding script, as an
// absolute path. script is normally <root>/bin/<launcher>.
func InstallRoot(script string) (string, error) {
	root, err := filepath.Abs(filepath.Dir(filepath.Dir(script)))
	if err != nil {
		return "", fmt.Errorf("resolving install root: %w", err)
	}
	return root, nil
}

// CheckDistribution fails when home does not look like a built
// distribution, i.e. it has no lib directory for the module list to
// point into.
func CheckDistribution(home string) error {
	lib := filepath.Join(home, "lib")
	if info, err := os.Stat(lib); err != nil || !info.IsDir() {
		return fmt.Errorf("could not find lib directory under %s: build the distribution before running it", home)
	}
	return nil
}

// JVMOptionsCandidates lists options-file locations in priority order:
// the installation's own config directory, then the system-wide one.
func JVMOptionsCandidates(home string) []string {
	return []string{
		filepath.Join(home, "config", "jvm.options"),
		"/etc/elasticsearch/jvm.options",
	}
}

// IncludeCandidates lists include-file locations in priority order:
// system-wide shared locations, the user's home, the installation, and
// finally the directory the launcher itself sits in. Each shell-style
// location is followed by its .hcl sibling.
func IncludeCandidates(home, script, userHome string) []string {
	base := []string{
		filepath.Join("/usr/share/elasticsearch", IncludeName),
		filepath.Join("/usr/local/share/elasticsearch", IncludeName),
		filepath.Join("/opt/elasticsearch", IncludeName),
	}
	if userHome != "" {
		base = append(base, filepath.Join(userHome, "."+IncludeName))
	}
	base = append(base,
		filepath.Join(home, "bin", IncludeName),
		filepath.Join(filepath.Dir(script), IncludeName),
	)

	candidates := make([]string, 0, 2*len(base))
	for _, p := range base {
		candidates = append(candidates, p, strings.TrimSuffix(p, ".sh")+".hcl")
	}
	return candidates
}

// Readable reports whether path is a regular file we can open for reading.
func Readable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// FirstReadable returns the first readable candidate, or "" if none is.
func FirstReadable(candidates []string) string {
	for _, p := range candidates {
		if Readable(p) {
			return p
		}
	}
	return ""
}
