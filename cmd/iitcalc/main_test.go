package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/iit-withholding/internal/config"
	"github.com/rpgo/iit-withholding/internal/output"
	"github.com/rpgo/iit-withholding/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvConfigPath, config.EnvFormats, config.EnvOutputDir, config.EnvBaseName,
		config.EnvDBPath, config.EnvLogLevel, config.EnvLocale} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestBracketsCommand(t *testing.T) {
	clearEnv(t)
	out, _, err := execute(t, "brackets")
	require.NoError(t, err)
	assert.Contains(t, out, "36000.00")
	assert.Contains(t, out, "45%")
	assert.Contains(t, out, "181920.00")
	assert.Contains(t, out, "unbounded")
}

func TestExampleToStdout(t *testing.T) {
	clearEnv(t)
	out, _, err := execute(t, "example")
	require.NoError(t, err)
	assert.Equal(t, string(config.ExampleYAML()), out)
}

func TestExampleThenValidate(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	_, _, err := execute(t, "example", path)
	require.NoError(t, err)

	_, _, err = execute(t, "example", path)
	assert.ErrorIs(t, err, config.ErrFileExists)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid: 2024-01 to 2025-06, 18 months, 2 salary adjustments, 2 leave overrides")
}

func TestCalculateWritesReports(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.WriteExample(cfgPath, false))
	outDir := filepath.Join(dir, "out")
	dbPath := filepath.Join(dir, "history.db")

	out, _, err := execute(t, "calculate", "--config", cfgPath, "--format", "table,csv,json",
		"--output-dir", outDir, "--basename", "run", "--db", dbPath, "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "MONTHLY WITHHOLDING SCHEDULE 2024-01 - 2025-06")
	assert.Contains(t, out, "Total tax withheld:")
	assert.FileExists(t, filepath.Join(outDir, "run.csv"))
	assert.FileExists(t, filepath.Join(outDir, "run.json"))
	assert.NoFileExists(t, filepath.Join(outDir, "run.txt"))
	assert.FileExists(t, dbPath)
}

func TestCalculateFromEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.WriteExample(cfgPath, false))
	t.Setenv(config.EnvConfigPath, cfgPath)
	t.Setenv(config.EnvFormats, "xlsx")
	t.Setenv(config.EnvOutputDir, dir)

	out, _, err := execute(t)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.FileExists(t, filepath.Join(dir, output.DefaultBaseName+".xlsx"))
}

func TestCalculateErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.WriteExample(cfgPath, false))

	_, _, err := execute(t, "calculate", "-c", cfgPath, "-f", "pdf", "-o", dir)
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)

	_, _, err = execute(t, "calculate", "-c", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")

	_, _, err = execute(t, "brackets", "--log-level", "loud")
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCalculateUnknownFormatPrintsNothing(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.WriteExample(cfgPath, false))
	outDir := filepath.Join(dir, "out")

	out, _, err := execute(t, "calculate", "-c", cfgPath, "-f", "table,csv,pdf", "-o", outDir)
	require.ErrorIs(t, err, output.ErrUnsupportedFormat)
	assert.Empty(t, out)
	assert.NoDirExists(t, outDir)
}

func TestCalculateUnusableDatabasePrintsNothing(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.WriteExample(cfgPath, false))
	outDir := filepath.Join(dir, "out")

	// the database directory would have to be created inside a regular file
	out, _, err := execute(t, "calculate", "-c", cfgPath, "-f", "table,csv", "-o", outDir,
		"--db", filepath.Join(cfgPath, "history.db"))
	require.Error(t, err)
	assert.Empty(t, out)
	assert.NoDirExists(t, outDir)
}

func TestHistoryCommand(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.WriteExample(cfgPath, false))
	dbPath := filepath.Join(dir, "history.db")

	out, _, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "no runs recorded\n", out)

	calcOut, _, err := execute(t, "calculate", "-c", cfgPath, "-f", "table", "--db", dbPath, "--log-level", "warn")
	require.NoError(t, err)

	out, _, err = execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "RUN"))
	assert.Contains(t, lines[1], "2024-01 - 2025-06")
	id := strings.Fields(lines[1])[0]

	out, _, err = execute(t, "history", id, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "MONTHLY WITHHOLDING SCHEDULE 2024-01 - 2025-06")
	total := calcOut[strings.Index(calcOut, "Total tax withheld:"):]
	assert.Contains(t, out, total)

	_, _, err = execute(t, "history", "no-such-run", "--db", dbPath)
	assert.ErrorIs(t, err, storage.ErrRunNotFound)
}

func TestHistoryNeedsDatabase(t *testing.T) {
	clearEnv(t)
	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvDBPath)
}
