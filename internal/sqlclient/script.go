package sqlclient

import (
	"os"
	"strings"
)

// scriptPreamble configures the client for clean plain-text output
const scriptPreamble = `SET HEADING OFF
SET FEEDBACK OFF
SET ECHO OFF
SET PAGESIZE 1000
SET LINESIZE 200
`

// BuildScript returns the scratch script body for one query: the settings
// preamble, the query terminated with a statement separator, and EXIT so
// the client does not wait for further input.
func BuildScript(query string) string {
	var b strings.Builder
	b.WriteString(scriptPreamble)
	b.WriteString(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	b.WriteString(";\n")
	b.WriteString("EXIT;\n")
	return b.String()
}

// WriteScript writes the scratch script for one query, overwriting path
func WriteScript(path, query string) error {
	return os.WriteFile(path, []byte(BuildScript(query)), 0600)
}
