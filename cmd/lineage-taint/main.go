// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.

// lineage-taint: extract interprocedural taint flows from a database of
// per-procedure lineage summaries.
// The source and sink endpoints follow the [module:]function/arity$(ret|argN)
// syntax; sanitizers omit the $location suffix. Endpoints can be given on
// the command line or listed as taint-problems in the config file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/awslabs/lineage-tools/analysis/config"
	"github.com/awslabs/lineage-tools/analysis/lineage"
	"github.com/awslabs/lineage-tools/analysis/render"
	"github.com/awslabs/lineage-tools/analysis/summaries"
	"github.com/awslabs/lineage-tools/internal/formatutil"
)

type sanitizerFlags []string

func (s *sanitizerFlags) String() string { return fmt.Sprint(*s) }

func (s *sanitizerFlags) Set(value string) error {
	*s = append(*s, value)
	return nil
}

var (
	configPath  = flag.String("config", "", "Config file path for taint analysis")
	summaryPath = flag.String("summaries", "", "Summary database path")
	sourceFlag  = flag.String("source", "", "Source endpoint [module:]function/arity$(ret|argN)")
	sinkFlag    = flag.String("sink", "", "Sink endpoint [module:]function/arity$(ret|argN)")
	callgraph   = flag.Bool("callgraph", false, "Also write the caller graph as callers.dot")
	sanitizers  sanitizerFlags
)

func init() {
	flag.Var(&sanitizers, "sanitizer", "Sanitizer [module:]function/arity (repeatable)")
}

const usage = ` Extract taint flows from persisted lineage summaries.
Usage:
    lineage-taint [options] -summaries summaries.db
Examples:
% lineage-taint -summaries summaries.db -source 'm:read_input/1$ret' -sink 'm:exec/1$arg0'
% lineage-taint -config config.yaml -summaries summaries.db
Options:
`

func main() {
	flag.Parse()

	if *summaryPath == "" {
		_, _ = fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.NewDefault()
	if *configPath != "" {
		config.SetGlobalConfig(*configPath)
		var err error
		cfg, err = config.LoadGlobal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not load config %s: %v\n", *configPath, err)
			os.Exit(1)
		}
	}
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = "lineage-results"
	}
	logger := config.NewLogGroup(cfg)

	specs := cfg.TaintProblems
	if *sourceFlag != "" || *sinkFlag != "" {
		specs = append(specs, config.TaintSpec{Source: *sourceFlag, Sink: *sinkFlag, Sanitizers: []string(sanitizers)})
	}
	if len(specs) == 0 {
		fmt.Fprintf(os.Stderr, "no taint problem: give -source/-sink or list taint-problems in the config\n")
		os.Exit(2)
	}

	store, err := summaries.Open(*summaryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open summaries: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	for i, spec := range specs {
		if err := runProblem(cfg, logger, store, spec, i); err != nil {
			if errors.Is(err, lineage.ErrBadEndpoint) {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(2)
			}
			fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
			os.Exit(1)
		}
	}
}

func runProblem(cfg *config.Config, logger *config.LogGroup, store *summaries.SQLiteStore,
	spec config.TaintSpec, i int) error {
	problem, err := lineage.ParseProblem(spec)
	if err != nil {
		return err
	}

	logger.Infof("%s %s -> %s", formatutil.Faint("Tracing"),
		formatutil.Purple(spec.Source), formatutil.Red(spec.Sink))

	start := time.Now()
	flows, err := lineage.Analyze(cfg, logger, store, problem)
	if err != nil {
		return err
	}
	logger.Infof("Analysis took %3.4f s", time.Since(start).Seconds())

	taintWriter := render.NewDotWriter(cfg.ResultsDir, fmt.Sprintf("taint-%d", i))
	if err := lineage.Report(flows.Taint, store, taintWriter, logger); err != nil {
		return err
	}
	if cfg.DebugReachable {
		reachWriter := render.NewDotWriter(cfg.ResultsDir, fmt.Sprintf("reachable-%d", i))
		if err := lineage.Report(flows.Reachable, store, reachWriter, logger); err != nil {
			return err
		}
	}
	if *callgraph {
		if err := writeCallerGraph(cfg, flows.Callers); err != nil {
			return err
		}
	}

	if len(flows.Taint) > 0 {
		logger.Infof("%s: %d procedures carry flow from %s to %s",
			formatutil.Red("A source has reached a sink"),
			len(flows.Taint), spec.Source, spec.Sink)
	}
	return nil
}

func writeCallerGraph(cfg *config.Config, idx lineage.CallerIndex) error {
	if err := os.MkdirAll(cfg.ResultsDir, 0750); err != nil {
		return fmt.Errorf("could not create directory %s: %w", cfg.ResultsDir, err)
	}
	f, err := os.Create(filepath.Join(cfg.ResultsDir, "callers.dot"))
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()
	return render.WriteCallerGraph(idx, f)
}
