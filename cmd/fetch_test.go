package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(args ...string) error {
	root := newRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	return root.Execute()
}

func TestFetchRequiresInputFile(t *testing.T) {
	err := executeCommand("fetch")
	require.Error(t, err)
}

func TestFetchRejectsBadRowLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit string
	}{
		{name: "non-numeric", limit: "abc"},
		{name: "zero", limit: "0"},
		{name: "negative", limit: "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The terminator keeps a leading dash from being parsed
			// as a flag, so validation sees the raw value.
			err := executeCommand("fetch", "--", "apps.csv", tt.limit)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "row limit")
		})
	}
}

func TestFetchMissingInputFileFails(t *testing.T) {
	err := executeCommand("fetch", "definitely-absent.csv")
	require.Error(t, err)
}

func TestRunsWithoutStoreConfigured(t *testing.T) {
	err := executeCommand("runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.path")
}
