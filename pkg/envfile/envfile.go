// Package envfile reads and patches the .env file generated by the geonode
// env-file helper. Patching preserves comments, blank lines and unknown keys
// so the rest of the generated file survives untouched.
package envfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/geonode-contrib/geostack/pkg/errors"
)

// Parse reads .env content into a key-value map.
func Parse(content string) (map[string]string, error) {
	env := make(map[string]string)
	if content == "" {
		return env, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrEnvParse, "line %d", lineNo)
		}
		if !ok {
			continue
		}
		env[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrEnvParse, "failed to read env content")
	}

	return env, nil
}

// Patch updates .env content with the provided key/value pairs. Existing
// keys are rewritten in place; new keys are appended at the end.
func Patch(content string, updates map[string]string) string {
	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}

	index := make(map[string]int)
	for i, line := range lines {
		key, _, ok, err := parseLine(line)
		if err != nil || !ok {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	for key, value := range updates {
		encoded := encodeValue(value)
		if i, ok := index[key]; ok {
			lines[i] = fmt.Sprintf("%s=%s", key, encoded)
		} else {
			lines = append(lines, fmt.Sprintf("%s=%s", key, encoded))
			index[key] = len(lines) - 1
		}
	}

	return strings.Join(lines, "\n")
}

// PatchFile applies Patch to the file at path in place.
func PatchFile(path string, updates map[string]string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", path)
	}

	patched := Patch(string(content), updates)
	if !strings.HasSuffix(patched, "\n") {
		patched += "\n"
	}

	if err := os.WriteFile(path, []byte(patched), info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrEnvWrite, "failed to write %s", path)
	}
	return nil
}

// parseLine parses a single .env line and returns key/value when present.
// Blank lines and comments report ok=false without an error.
func parseLine(line string) (string, string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	if strings.HasPrefix(trimmed, "export ") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))
	}
	idx := strings.Index(trimmed, "=")
	if idx <= 0 {
		return "", "", false, fmt.Errorf("expected KEY=VALUE")
	}
	key := strings.TrimSpace(trimmed[:idx])
	if key == "" {
		return "", "", false, fmt.Errorf("expected KEY=VALUE")
	}
	value := strings.TrimSpace(trimmed[idx+1:])
	value = unquote(value)
	return key, value, true, nil
}

// unquote strips a single level of matching quotes from a value.
func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// encodeValue quotes a value when it needs protection from shell-style
// splitting or comment markers.
func encodeValue(val string) string {
	if strings.ContainsAny(val, " \t#'\"") {
		val = strings.ReplaceAll(val, `\`, `\\`)
		val = strings.ReplaceAll(val, `"`, `\"`)
		return `"` + val + `"`
	}
	return val
}
