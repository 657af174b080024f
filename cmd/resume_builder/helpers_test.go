package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const completeYAML = `sections:
  - kind: contact_info
    entries:
      - fields:
          full_name: jane doe
          email: jane@example.com
  - kind: experience
    entries:
      - fields:
          role: Engineer
          organization: Acme
          dates: {start: 2021-02, end: present}
          highlights: [Shipped v2]
  - kind: skills
    entries:
      - fields:
          skills: [Go, SQL]
`

// writeDoc writes content to name inside a temp directory and returns the path
func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args and returns its output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}
