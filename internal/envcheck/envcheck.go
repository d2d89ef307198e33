// Package envcheck rejects environment variables the launcher no longer
// honours. JVM sizing and GC settings now live in jvm.options or
// ES_JAVA_OPTS.
package envcheck

import (
	"fmt"
	"io"
	"strings"

	"github.com/mbrock/eslaunch/internal/config"
)

// Deprecated pairs a variable name with its remediation template.
// Every {value} in the template is replaced with the variable's value.
type Deprecated struct {
	Name        string
	Remediation string
}

// Table is checked in order; Violations are reported in the same order.
var Table = []Deprecated{
	{"ES_MIN_MEM", `set -Xms{value} in jvm.options or add "-Xms{value}" to ES_JAVA_OPTS`},
	{"ES_MAX_MEM", `set -Xmx{value} in jvm.options or add "-Xmx{value}" to ES_JAVA_OPTS`},
	{"ES_HEAP_SIZE", `set -Xms{value} and -Xmx{value} in jvm.options or add "-Xms{value} -Xmx{value}" to ES_JAVA_OPTS`},
	{"ES_HEAP_NEWSIZE", `set -Xmn{value} in jvm.options or add "-Xmn{value}" to ES_JAVA_OPTS`},
	{"ES_DIRECT_SIZE", `set -XX:MaxDirectMemorySize={value} in jvm.options or add "-XX:MaxDirectMemorySize={value}" to ES_JAVA_OPTS`},
	{"ES_USE_IPV4", `set -Djava.net.preferIPv4Stack=true in jvm.options or add "-Djava.net.preferIPv4Stack=true" to ES_JAVA_OPTS`},
	{"ES_GC_OPTS", `set {value} in jvm.options or add "{value}" to ES_JAVA_OPTS`},
	{"ES_GC_LOG_FILE", `set -Xloggc:{value} in jvm.options or add "-Xloggc:{value}" to ES_JAVA_OPTS`},
}

// Violation is a deprecated variable found set in the environment.
type Violation struct {
	Name        string
	Value       string
	Remediation string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s=%s: %s", v.Name, v.Value, v.Remediation)
}

// Check returns a Violation for every Table entry that is set to a
// non-empty value in env.
func Check(env config.Environment) []Violation {
	var out []Violation
	for _, d := range Table {
		value := env.Get(d.Name)
		if value == "" {
			continue
		}
		out = append(out, Violation{
			Name:        d.Name,
			Value:       value,
			Remediation: strings.ReplaceAll(d.Remediation, "{value}", value),
		})
	}
	return out
}

// Report writes the generic error followed by one remediation line per
// violation.
func Report(w io.Writer, violations []Violation) {
	fmt.Fprintln(w, "Error: encountered environment variables that are no longer supported")
	fmt.Fprintln(w, "Use jvm.options or ES_JAVA_OPTS to configure the JVM")
	for _, v := range violations {
		fmt.Fprintln(w, v.String())
	}
}
