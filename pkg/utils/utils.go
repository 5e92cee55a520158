package utils

import (
	"path/filepath"
	"strings"
	"unicode"
)

// CutKeyValue splits line on the first occurrence of sep.
// Surrounding whitespace and carriage returns are removed from key and value.
func CutKeyValue(line, sep string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(line, sep)
	if !ok {
		return "", "", false
	}

	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

// TrimQuotes removes all single and double quotes from str
func TrimQuotes(str string) string {
	return strings.NewReplacer(`"`, "", `'`, "").Replace(str)
}

// SplitLines splits text into lines, accepting \n and \r\n endings
func SplitLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// ProgramName returns the base name of the invoked program, symlinks are not resolved
func ProgramName(arg0 string) string {
	name := filepath.Base(arg0)

	return strings.TrimSuffix(name, filepath.Ext(name))
}

// FieldsN is like strings.Fields, but returns at most n fields,
// and the nth field includes the remainder of the string.
func FieldsN(str string, max int) []string {
	if max <= 0 {
		return nil
	}

	fields := make([]string, 0, max)
	rest := strings.TrimLeftFunc(str, unicode.IsSpace)
	for rest != "" {
		idx := strings.IndexFunc(rest, unicode.IsSpace)
		if idx < 0 || len(fields) == max-1 {
			fields = append(fields, rest)

			break
		}
		fields = append(fields, rest[:idx])
		rest = strings.TrimLeftFunc(rest[idx:], unicode.IsSpace)
	}

	return fields
}
