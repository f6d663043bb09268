package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleg578/csvtrim"
	"github.com/oleg578/csvtrim/internal/config"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(t.Context(), nil, &stdout, &stderr, args...)
	return stdout.String(), stderr.String(), err
}

func TestRunTransform(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out.csv")
	stdout, _, err := execute(t, "-n", "10", "../../testdata/datafile_5.csv", out)
	require.NoError(t, err)
	assert.Equal(t, "5 records written\n", stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1003,Garden,2024-02-19,Hose\n")
}

func TestRunReportsSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte("1;a;b;c\nshort\n"), 0o644))

	stdout, _, err := execute(t, "--delimiter", ";", in, filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "1 records written, 1 malformed records skipped\n", stdout)
}

func TestRunStrict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte("1,a,b,c\nshort\n"), 0o644))

	_, stderr, err := execute(t, "--strict", in, filepath.Join(dir, "out.csv"))
	require.ErrorIs(t, err, csvtrim.ErrMalformedRow)
	assert.Contains(t, stderr, "line 2")
	assert.NoFileExists(t, filepath.Join(dir, "out.csv"))
}

func TestRunMissingSource(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out.csv")
	_, stderr, err := execute(t, "DOESNOTEXIST.csv", out)
	require.ErrorIs(t, err, csvtrim.ErrSourceNotFound)
	assert.Contains(t, stderr, "source not found")
	assert.NoFileExists(t, out)
}

func TestRunRequiresPaths(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "only-input.csv")
	require.Error(t, err)
}

func TestRunFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src, err := os.ReadFile("../../testdata/datafile_UK.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uk.csv"), src, 0o644))

	cfgPath := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("input: uk.csv\noutput: out.csv\nmax_description_length: 6\ndelimiter: \";\"\n"), 0o644))

	stdout, _, err := execute(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "6 records written\n", stdout)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "UK-006,Bristol,2024-04-18,Cider\n")
	assert.Contains(t, string(data), "UK-002,Manchester,2024-04-03,Footba\n")

	// Explicit flags win over the job file.
	other := filepath.Join(dir, "other.csv")
	_, _, err = execute(t, "--config", cfgPath, "-n", "3", filepath.Join(dir, "uk.csv"), other)
	require.NoError(t, err)
	data, err = os.ReadFile(other)
	require.NoError(t, err)
	assert.Contains(t, string(data), "UK-002,Manchester,2024-04-03,Foo\n")
}

func TestInitWritesConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "job.yaml")
	stdout, _, err := execute(t, "init", "--input", "/data/in.csv", "--output", "/data/out.csv", "-d", ";", "-n", "40", path)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+"\n", stdout)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	job := cfg.Job()
	assert.Equal(t, "/data/in.csv", job.Input)
	assert.Equal(t, ";", job.Delimiter)
	assert.Equal(t, 40, job.MaxDescriptionLength)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "csvtrim version dev\n", stdout)
}
