package include

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/mbrock/eslaunch/internal/config"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func applyShellFile(path string, env config.Environment) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening include: %w", err)
	}
	defer f.Close()
	return applyShell(f, path, env)
}

// applyShell evaluates assignment lines in order, so later lines see the
// values set by earlier ones.
func applyShell(r io.Reader, name string, env config.Environment) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		exported := false
		if rest, ok := strings.CutPrefix(line, "export "); ok {
			line = strings.TrimSpace(rest)
			exported = true
		}

		key, raw, isAssign := strings.Cut(line, "=")
		if !isAssign {
			// Everything in the snapshot reaches the child already.
			if exported && allNames(strings.Fields(line)) {
				continue
			}
			return &SyntaxError{File: name, Line: lineNo, Msg: "unsupported statement: " + line}
		}
		if !namePattern.MatchString(key) {
			return &SyntaxError{File: name, Line: lineNo, Msg: fmt.Sprintf("invalid variable name %q", key)}
		}

		value, err := evalValue(raw, env)
		if err != nil {
			return &SyntaxError{File: name, Line: lineNo, Msg: err.Error()}
		}
		env.Set(key, value)
	}
	return scanner.Err()
}

func allNames(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if !namePattern.MatchString(f) {
			return false
		}
	}
	return true
}

// evalValue expands variables in the right-hand side of an assignment and
// removes quoting. The result must be a single word.
func evalValue(raw string, env config.Environment) (string, error) {
	expanded, err := expand(raw, env)
	if err != nil {
		return "", err
	}
	words, err := shellwords.Parse(expanded)
	if err != nil {
		return "", fmt.Errorf("parsing value %q: %w", raw, err)
	}
	switch len(words) {
	case 0:
		return "", nil
	case 1:
		return words[0], nil
	default:
		return "", fmt.Errorf("unquoted whitespace in value %q", raw)
	}
}

// expand substitutes $NAME and ${NAME} outside single quotes. Substituted
// values are re-quoted so shellwords keeps them as one word.
func expand(s string, env config.Environment) (string, error) {
	var b strings.Builder
	inSingle, inDouble := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && !inSingle && i+1 < len(s):
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i++
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			b.WriteByte(c)
		case c == '"' && !inSingle:
			inDouble = !inDouble
			b.WriteByte(c)
		case c == '`' && !inSingle:
			return "", fmt.Errorf("command substitution is not supported")
		case strings.IndexByte(";&|<>", c) >= 0 && !inSingle && !inDouble:
			return "", fmt.Errorf("shell operator %q is not supported", c)
		case c == '$' && !inSingle:
			rest := s[i+1:]
			if strings.HasPrefix(rest, "(") {
				return "", fmt.Errorf("command substitution is not supported")
			}
			name, n, err := varName(rest)
			if err != nil {
				return "", err
			}
			if n == 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString(quote(env.Get(name), inDouble))
			i += n
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// varName reads a variable reference following '$' and returns its name
// and the number of bytes it spans.
func varName(s string) (string, int, error) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return "", 0, fmt.Errorf("unterminated ${")
		}
		name := s[1:end]
		if !namePattern.MatchString(name) {
			return "", 0, fmt.Errorf("unsupported parameter expansion ${%s}", name)
		}
		return name, end + 1, nil
	}
	n := 0
	for n < len(s) && (s[n] == '_' || isAlpha(s[n]) || (n > 0 && isDigit(s[n]))) {
		n++
	}
	return s[:n], n, nil
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func quote(v string, inDouble bool) string {
	if inDouble {
		r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
		return r.Replace(v)
	}
	if v == "" {
		return ""
	}
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}
