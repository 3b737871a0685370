package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PAGERANK_SUPERSTEPS",
	"PAGERANK_OUTPUT_DIR",
	"PAGERANK_SEQUENTIAL",
	"PAGERANK_PARALLEL",
	"PAGERANK_DISTRIBUTED",
	"PAGERANK_ACCELERATED",
	"MPI_LAUNCHER",
	"MPI_PROCESSES",
	"RUN_TIMEOUT",
	"CLEAR_CACHES",
	"RESULTS_DB_URL",
}

// unsetConfigEnv clears the config keys for the test and restores them after.
func unsetConfigEnv(t *testing.T) {
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetConfigEnv(t)

	config, err := LoadConfig("")
	require.Nil(t, err)
	require.Equal(t, []int{10, 100, 1000, 10000, 100000}, config.Supersteps)
	require.Equal(t, "./output", config.OutputDir)
	require.Equal(t, filepath.Join("output", "plots"), config.PlotsDir())
	require.Equal(t, "./page-rank/pageRankSequential", config.SequentialBinary)
	require.Equal(t, "./page-rank/pageRankParallel", config.ParallelBinary)
	require.Equal(t, "./page-rank/pageRankDistributed", config.DistributedBinary)
	require.Equal(t, "./page-rank/pageRankAccelerated", config.AcceleratedBinary)
	require.Equal(t, "mpiexec", config.MpiLauncher)
	require.Equal(t, 4, config.MpiProcesses)
	require.Equal(t, time.Duration(0), config.RunTimeout)
	require.False(t, config.ClearCaches)
	require.Equal(t, "", config.ResultsDbUrl)
}

func TestLoadConfigEnv(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("PAGERANK_SUPERSTEPS", "5, 50")
	t.Setenv("MPI_PROCESSES", "8")
	t.Setenv("RUN_TIMEOUT", "90s")
	t.Setenv("CLEAR_CACHES", "true")

	config, err := LoadConfig("")
	require.Nil(t, err)
	require.Equal(t, []int{5, 50}, config.Supersteps)
	require.Equal(t, 8, config.MpiProcesses)
	require.Equal(t, 90*time.Second, config.RunTimeout)
	require.True(t, config.ClearCaches)
}

func TestLoadConfigDotEnv(t *testing.T) {
	unsetConfigEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.Nil(t, os.WriteFile(path, []byte("PAGERANK_OUTPUT_DIR=/tmp/pagerank\nMPI_PROCESSES=2\n"), 0o644))

	config, err := LoadConfig(path)
	require.Nil(t, err)
	require.Equal(t, "/tmp/pagerank", config.OutputDir)
	require.Equal(t, 2, config.MpiProcesses)
}

func TestLoadConfigMissingDotEnv(t *testing.T) {
	unsetConfigEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), ".env"))
	require.Nil(t, err)
}

func TestLoadConfigInvalidProcesses(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("MPI_PROCESSES", "eight")

	_, err := LoadConfig("")
	require.ErrorContains(t, err, "MPI_PROCESSES=eight")
}

func TestLoadConfigInvalidClearCaches(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("CLEAR_CACHES", "maybe")

	_, err := LoadConfig("")
	require.ErrorContains(t, err, "CLEAR_CACHES=maybe")
}

func TestLoadConfigInvalidSupersteps(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("PAGERANK_SUPERSTEPS", "10,many")

	_, err := LoadConfig("")
	require.ErrorContains(t, err, "many")
}

func TestValidateCollectsAllProblems(t *testing.T) {
	config := Config{MpiProcesses: 0, Supersteps: []int{10, -1}}

	err := config.Validate()
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	// negative size, process count, output dir and five binaries
	require.Len(t, merr.Errors, 8)
}

func TestValidateEmptySweep(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("PAGERANK_SUPERSTEPS", "")

	_, err := LoadConfig("")
	require.ErrorContains(t, err, "must not be empty")
}
