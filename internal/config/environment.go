package config

import (
	"os"
	"sort"
	"strings"
)

// Environment is a snapshot of process environment variables.
// Resolution steps read and write the snapshot instead of the live process
// environment; the final snapshot becomes the child's environment.
type Environment map[string]string

// FromOS snapshots the current process environment.
func FromOS() Environment {
	return FromList(os.Environ())
}

// FromList builds an Environment from KEY=VALUE pairs. Later duplicates win.
func FromList(pairs []string) Environment {
	env := make(Environment, len(pairs))
	for _, kv := range pairs {
		if idx := strings.Index(kv, "="); idx > 0 {
			env[kv[:idx]] = kv[idx+1:]
		}
	}
	return env
}

// Get returns the value of key, or "" when unset.
func (e Environment) Get(key string) string {
	return e[key]
}

// Lookup returns the value of key and whether it is set at all.
// A variable set to the empty string is reported as set.
func (e Environment) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

func (e Environment) Set(key, value string) {
	e[key] = value
}

func (e Environment) Unset(key string) {
	delete(e, key)
}

// Clone returns an independent copy of the snapshot.
func (e Environment) Clone() Environment {
	out := make(Environment, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// List renders the snapshot as sorted KEY=VALUE pairs.
func (e Environment) List() []string {
	if len(e) == 0 {
		return nil
	}
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
