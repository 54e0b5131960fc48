package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"cleaner/internal/config"
	"cleaner/internal/inspect"
	"cleaner/internal/logger"
	"cleaner/internal/metrics"
	"cleaner/internal/metrics/datadog"
	"cleaner/internal/metrics/prompush"
	"cleaner/internal/pipeline"
	"cleaner/internal/render"
)

// main loads (or defaults) the pipeline config, lints it, optionally installs
// a metrics backend and runs the pipeline over the built-in sample table.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		dogStatsdAddrFlg  string
		logLevel          string
		validate          bool
		printCfg          bool
		sample            bool
		profile           bool
		logJSON           bool
		maxRows           int
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config path (.json, .yaml, .yml); built-in customer pipeline when empty")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend: pushgateway, datadog or none (overrides env METRICS_BACKEND)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&dogStatsdAddrFlg, "dogstatsd-addr", "", "DogStatsD address (overrides env DD_DOGSTATSD_ADDR)")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&printCfg, "print", false, "print the effective configuration as JSON and exit")
	flag.BoolVar(&sample, "sample", true, "clean the built-in sample table and print the result")
	flag.BoolVar(&profile, "profile", false, "print a column profile of the sample before and after cleaning")
	flag.BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
	flag.IntVar(&maxRows, "max-rows", 0, "limit rendered rows (0 = all)")
	verbose := flag.Bool("v", false, "enable verbose logs (same as -log-level=debug)")

	flag.Parse()

	if *verbose {
		logLevel = logger.DebugLevel
	}
	lg := logger.New(logger.Config{Level: logLevel, JSON: logJSON})

	p := config.Default()
	if cfgPath != "" {
		var err error
		if p, err = config.Load(cfgPath); err != nil {
			lg.Fatal("load config", "path", cfgPath, "err", err)
		}
	}

	if printCfg {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			lg.Fatal("print config", "err", err)
		}
		return
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		lg.Error("configuration is invalid", "path", displayPath(cfgPath))
		os.Exit(1)
	}
	if validate {
		lg.Info("configuration is valid", "path", displayPath(cfgPath))
		return
	}

	flush := setupMetrics(lg, p.Job, metricsBackendFlg, pushGatewayURLFlg, dogStatsdAddrFlg)
	defer flush()

	if !sample {
		return
	}

	runner, err := pipeline.NewRunner(p, lg)
	if err != nil {
		lg.Error("build pipeline", "err", err)
		flush()
		os.Exit(1)
	}
	in := sampleTable()
	if profile {
		fmt.Println(render.Profile(inspect.Profile(in, 3)))
	}
	res, err := runner.Run(in)
	if err != nil {
		lg.Error("cleaning failed", "err", err)
		flush()
		os.Exit(1)
	}

	opts := render.DefaultOptions()
	opts.FloatDigits = p.Display.FloatDigits
	opts.MaxRows = maxRows
	fmt.Println(render.Table(res.Table, opts))
	fmt.Print(render.Reports(res.Reports, opts))
	if profile {
		fmt.Println(render.Profile(inspect.Profile(res.Table, 3)))
	}
}

// setupMetrics installs the selected backend and returns a flush function
// that is safe to call more than once.
func setupMetrics(lg *charmlog.Logger, job, backendFlg, gwFlg, ddFlg string) func() {
	noop := func() {}

	var closeBackend func() error

	// Decide metrics backend: flag → env → none.
	backendName := backendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	if job == "" {
		job = "cleaner"
	}

	switch strings.ToLower(backendName) {
	case "pushgateway":
		gwURL := firstNonEmpty(gwFlg, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091")
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			lg.Warn("metrics: failed to init prom push backend; using nop", "err", err)
			return noop
		}
		lg.Debug("metrics enabled", "backend", backendName, "url", gwURL, "job", job)
		metrics.SetBackend(b)

	case "datadog":
		addr := firstNonEmpty(ddFlg, os.Getenv("DD_DOGSTATSD_ADDR"), "127.0.0.1:8125")
		b, err := datadog.NewBackend(datadog.Config{
			Addr:        addr,
			Namespace:   "cleaner.",
			GlobalTags:  []string{"job:" + job},
			NoTelemetry: true,
		})
		if err != nil {
			lg.Warn("metrics: failed to init datadog backend; using nop", "err", err)
			return noop
		}
		lg.Debug("metrics enabled", "backend", backendName, "addr", addr, "job", job)
		metrics.SetBackend(b)
		closeBackend = b.Close

	case "", "none":
		lg.Debug("metrics disabled", "backend", backendName)
		return noop

	default:
		lg.Warn("metrics: unknown backend; metrics disabled", "backend", backendName)
		return noop
	}

	done := false
	return func() {
		if done {
			return
		}
		done = true
		if err := metrics.Flush(); err != nil {
			lg.Warn("metrics: flush error", "err", err)
		}
		if closeBackend != nil {
			if err := closeBackend(); err != nil {
				lg.Warn("metrics: close error", "err", err)
			}
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func displayPath(p string) string {
	if p == "" {
		return "(built-in)"
	}
	return p
}
