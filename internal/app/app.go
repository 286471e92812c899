// Package app wires the application together: configuration, logging,
// path sandboxing, the delegate, and the tool registry. Commands consume
// the App container instead of constructing dependencies themselves.
package app

import (
	"fmt"
	"os"

	"github.com/oceankit/oceankit/internal/config"
	"github.com/oceankit/oceankit/internal/dataset"
	"github.com/oceankit/oceankit/internal/delegate"
	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/pipeline"
	"github.com/oceankit/oceankit/internal/security"
	"github.com/oceankit/oceankit/internal/table"
	"github.com/oceankit/oceankit/internal/tools"
)

// App is the application container. Build it once with New and share it
// across commands.
type App struct {
	Config        *config.Config
	Logger        log.Logger
	PathValidator *security.Path
	Delegate      *delegate.Runner
	Pipeline      *pipeline.Runner
	Registry      *tools.Registry
}

// New builds the container from loaded configuration. The delegate
// runner is optional: a missing helper script only disables the
// binary-format tools, never table processing.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}

	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel), JSON: cfg.LogJSON})

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	allowed := append([]string{cwd}, cfg.DataDirs...)
	pathVal, err := security.NewPath(allowed)
	if err != nil {
		return nil, fmt.Errorf("building path validator: %w", err)
	}

	var runner *delegate.Runner
	if cfg.Delegate.Python != "" && cfg.Delegate.Script != "" {
		runner, err = delegate.New(cfg.Delegate.Python, cfg.Delegate.Script, cfg.Delegate.Timeout, logger)
		if err != nil {
			return nil, fmt.Errorf("building delegate runner: %w", err)
		}
	}

	aliases := table.DefaultAliases()
	for canonical, names := range cfg.FieldAliases {
		aliases[canonical] = names
	}

	io, err := tools.NewIO(pathVal, cfg.Limits, aliases, logger)
	if err != nil {
		return nil, fmt.Errorf("building tool plumbing: %w", err)
	}

	pipe, err := pipeline.NewRunner(logger)
	if err != nil {
		return nil, fmt.Errorf("building pipeline runner: %w", err)
	}

	registry, err := buildRegistry(cfg, io, runner, pipe, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		PathValidator: pathVal,
		Delegate:      runner,
		Pipeline:      pipe,
		Registry:      registry,
	}, nil
}

func buildRegistry(
	cfg *config.Config,
	io *tools.IO,
	runner *delegate.Runner,
	pipe *pipeline.Runner,
	logger log.Logger,
) (*tools.Registry, error) {
	ingest, err := tools.NewIngestToolset(io, runner, logger)
	if err != nil {
		return nil, fmt.Errorf("building ingest toolset: %w", err)
	}
	preprocess, err := tools.NewPreprocessToolset(io, logger)
	if err != nil {
		return nil, fmt.Errorf("building preprocess toolset: %w", err)
	}
	qcTS, err := tools.NewQCToolset(io, logger)
	if err != nil {
		return nil, fmt.Errorf("building qc toolset: %w", err)
	}
	maskTS, err := tools.NewMaskToolset(io, runner, logger)
	if err != nil {
		return nil, fmt.Errorf("building mask toolset: %w", err)
	}
	split := dataset.SplitParams{
		TrainRatio: cfg.TrainRatio,
		ValRatio:   cfg.ValRatio,
		TestRatio:  cfg.TestRatio,
		Shuffle:    true,
	}
	datasetTS, err := tools.NewDatasetToolset(io, split, logger)
	if err != nil {
		return nil, fmt.Errorf("building dataset toolset: %w", err)
	}
	pipelineTS, err := tools.NewPipelineToolset(io, pipe, logger)
	if err != nil {
		return nil, fmt.Errorf("building pipeline toolset: %w", err)
	}

	toolsets := []tools.Toolset{ingest, preprocess, qcTS, maskTS, datasetTS, pipelineTS}
	if runner != nil {
		delegateTS, err := tools.NewDelegateToolset(io, runner, logger)
		if err != nil {
			return nil, fmt.Errorf("building delegate toolset: %w", err)
		}
		toolsets = append(toolsets, delegateTS)
	}

	return tools.NewRegistry(logger, toolsets...)
}
