package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

var DefaultSupersteps = []int{10, 100, 1000, 10000, 100000}

const DefaultMpiProcesses = 4

type Config struct {
	// Supersteps is the workload sweep, every strategy runs it in this order.
	Supersteps []int
	OutputDir  string

	SequentialBinary  string
	ParallelBinary    string
	DistributedBinary string
	AcceleratedBinary string

	MpiLauncher  string
	MpiProcesses int

	RunTimeout  time.Duration
	ClearCaches bool

	// ResultsDbUrl enables the libsql results storage when not empty.
	ResultsDbUrl string
}

func (c Config) PlotsDir() string {
	return filepath.Join(c.OutputDir, "plots")
}

// LoadConfig reads .env (if present) and the environment on top of the
// fixed defaults.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %v: %w", envFile, err)
		}
	}
	supersteps, err := IntsEnv("PAGERANK_SUPERSTEPS", DefaultSupersteps)
	if err != nil {
		return Config{}, err
	}
	timeout, err := DurationEnv("RUN_TIMEOUT", 0)
	if err != nil {
		return Config{}, err
	}
	processes, err := IntEnv("MPI_PROCESSES", DefaultMpiProcesses)
	if err != nil {
		return Config{}, err
	}
	clearCaches, err := BoolEnv("CLEAR_CACHES", false)
	if err != nil {
		return Config{}, err
	}
	config := Config{
		Supersteps:        supersteps,
		OutputDir:         StringEnv("PAGERANK_OUTPUT_DIR", "./output"),
		SequentialBinary:  StringEnv("PAGERANK_SEQUENTIAL", "./page-rank/pageRankSequential"),
		ParallelBinary:    StringEnv("PAGERANK_PARALLEL", "./page-rank/pageRankParallel"),
		DistributedBinary: StringEnv("PAGERANK_DISTRIBUTED", "./page-rank/pageRankDistributed"),
		AcceleratedBinary: StringEnv("PAGERANK_ACCELERATED", "./page-rank/pageRankAccelerated"),
		MpiLauncher:       StringEnv("MPI_LAUNCHER", "mpiexec"),
		MpiProcesses:      processes,
		RunTimeout:        timeout,
		ClearCaches:       clearCaches,
		ResultsDbUrl:      StringEnv("RESULTS_DB_URL", ""),
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	var err error
	if len(c.Supersteps) == 0 {
		err = multierror.Append(err, errors.New("supersteps sweep must not be empty"))
	}
	for _, supersteps := range c.Supersteps {
		if supersteps <= 0 {
			err = multierror.Append(err, fmt.Errorf("supersteps must be positive, got %v", supersteps))
		}
	}
	if c.MpiProcesses <= 0 {
		err = multierror.Append(err, fmt.Errorf("mpi processes must be positive, got %v", c.MpiProcesses))
	}
	if c.OutputDir == "" {
		err = multierror.Append(err, errors.New("output dir must be set"))
	}
	binaries := map[string]string{
		"sequential":  c.SequentialBinary,
		"parallel":    c.ParallelBinary,
		"distributed": c.DistributedBinary,
		"accelerated": c.AcceleratedBinary,
		"mpi":         c.MpiLauncher,
	}
	for _, name := range []string{"sequential", "parallel", "distributed", "accelerated", "mpi"} {
		if binaries[name] == "" {
			err = multierror.Append(err, fmt.Errorf("%v binary path must be set", name))
		}
	}
	return err
}

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid integer in %v=%v: %w", key, value, err)
	}
	return parsed, nil
}

func BoolEnv(key string, def bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid boolean in %v=%v: %w", key, value, err)
	}
	return parsed, nil
}

func DurationEnv(key string, def time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" || value == "0" {
		return def, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %v=%v: %w", key, value, err)
	}
	return parsed, nil
}

// IntsEnv parses a comma separated list, keeping the order as written.
func IntsEnv(key string, def []int) ([]int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return slices.Clone(def), nil
	}
	values := make([]int, 0)
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		parsed, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q in %v: %w", token, key, err)
		}
		values = append(values, parsed)
	}
	return values, nil
}
