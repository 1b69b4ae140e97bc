package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTimelineCommand(t *testing.T) {
	out, err := run(t, "timeline", "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "gantt")
	assert.Contains(t, out, "section time-label")

	out, err = run(t, "timeline", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "activate-overlay")

	_, err = run(t, "timeline", "--format", "svg")
	assert.ErrorContains(t, err, "unknown format")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "marquee version")
}
