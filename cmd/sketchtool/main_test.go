package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	log := zap.NewNop().Sugar()
	cmd := newRootCommand(log)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestCreateGetSetIncAddRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.bin")

	run(t, "", "create", path, "--width", "100", "--max-value", "3")

	run(t, "banana\t2\n", "set", path)
	got := run(t, "banana\n", "get", path)
	assert.Equal(t, "banana\t2\n", got)

	run(t, "apple\napple\napple\napple\n", "inc", path)
	got = run(t, "apple\n", "get", path)
	assert.Equal(t, "apple\t3\n", got)

	run(t, "orange\t2\n", "add", path)
	run(t, "orange\t100\n", "add", path)
	got = run(t, "orange\n", "get", path)
	assert.Equal(t, "orange\t3\n", got)
}

func TestListPrintsHeaderFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.bin")
	run(t, "", "create", path, "--width", "64", "--max-value", "15")

	out := run(t, "", "list", path)
	assert.Contains(t, out, "Width")
	assert.Contains(t, out, "64")
	assert.Contains(t, out, "MaxValue")
	assert.Contains(t, out, "15")
	assert.Contains(t, out, "EXACT_MODE")
}

func TestGetRejectsMissingFile(t *testing.T) {
	log := zap.NewNop().Sugar()
	cmd := newRootCommand(log)
	cmd.SetArgs([]string{"get", filepath.Join(t.TempDir(), "missing.bin")})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	assert.Error(t, cmd.Execute())
}
