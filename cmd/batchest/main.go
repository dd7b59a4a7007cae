// Command batchest loads a stereo camera / IMU batch estimation dataset
// from a MATLAB v7.3 file, validates it and prints a summary.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/banshee-data/batchest/internal/config"
	"github.com/banshee-data/batchest/internal/dataset"
	"github.com/banshee-data/batchest/internal/fsutil"
	"github.com/banshee-data/batchest/internal/monitoring"
	"github.com/banshee-data/batchest/internal/version"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("batchest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to JSON configuration file (default "+config.DefaultConfigPath+" if present)")
	dataPath := fs.String("data", "", "MATLAB v7.3 dataset to load (overrides data_path)")
	debug := fs.Bool("debug", false, "Log the shape of every field as it is loaded")
	showSchema := fs.Bool("schema", false, "List the required dataset fields and exit")
	showVersion := fs.Bool("version", false, "Print version information and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "batchest: unexpected arguments: %v\n", fs.Args())
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}
	if *showSchema {
		for _, f := range dataset.Schema {
			fmt.Fprintln(stdout, f)
		}
		return exitOK
	}

	runID := uuid.New().String()[:8]
	logger := log.New(stderr, fmt.Sprintf("[%s] ", runID), log.LstdFlags)
	monitoring.SetLogger(logger.Printf)

	cfg, err := loadConfig(fsutil.OSFileSystem{}, *configPath)
	if err != nil {
		fmt.Fprintf(stderr, "batchest: %v\n", err)
		return exitFailure
	}
	if *dataPath != "" {
		cfg.SetDataPath(*dataPath)
	}
	monitoring.SetDebug(*debug || cfg.GetDebug())

	d, err := dataset.New(cfg.GetDataPath(), dataset.Config{
		RotationTolerance:    cfg.GetRotationTolerance(),
		RequireMonotonicTime: cfg.GetRequireMonotonicTime(),
	})
	if err != nil {
		fmt.Fprintf(stderr, "batchest: %v\n", err)
		if kind, _ := dataset.KindOf(err); kind == dataset.FileNotFound {
			return exitNotFound
		}
		return exitFailure
	}

	fmt.Fprintf(stdout, "%s: %s\n", d.Source(), d.Summary())
	return exitOK
}

// loadConfig reads the configuration at path. With no path it falls back
// to the defaults file when one exists, and to built-in defaults when not.
func loadConfig(fsys fsutil.FileSystem, path string) (*config.Config, error) {
	if path == "" {
		if !fsys.Exists(config.DefaultConfigPath) {
			return config.DefaultConfig(), nil
		}
		path = config.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	monitoring.Logf("[Config] loaded %s", path)
	return cfg, nil
}
