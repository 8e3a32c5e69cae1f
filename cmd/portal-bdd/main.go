// Copyright 2019 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command portal-bdd runs the customer portal feature files against a real
// browser.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/portalqa/portal-bdd/evidence"
	"github.com/portalqa/portal-bdd/shared"
	"github.com/portalqa/portal-bdd/shared/metrics"
	"github.com/portalqa/portal-bdd/steps"
	"github.com/portalqa/portal-bdd/webdriver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// nolint:gochecknoglobals // flags
var (
	configPath  = flag.String("config", "", "Path to the YAML config file; defaults to $PORTAL_CONFIG")
	features    = flag.String("features", "features", "Comma-separated feature files or directories")
	tags        = flag.String("tags", "", "Tag expression selecting scenarios, e.g. \"@profile && ~@help\"")
	format      = flag.String("format", "pretty", "godog output format")
	concurrency = flag.Int("concurrency", 1, "Scenarios to run in parallel; each gets its own browser")
	browserName = flag.String("browser", "", "Overrides browser.name from the config")
	fixture     = flag.Bool("fixture", false, "Run against the bundled fixture portal instead of baseURL")
	seed        = flag.Int64("seed", 0, "Seed for generated feedback text; 0 picks one from the clock")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Error("Failed to load configuration")
		return 2
	}
	if *browserName != "" {
		cfg.Browser.Name = *browserName
		if err := cfg.Validate(); err != nil {
			logrus.WithError(err).Error("Invalid --browser")
			return 2
		}
	}

	logger, err := shared.NewLogrus(cfg.Logging, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to configure logging")
		return 2
	}
	runID := uuid.New()
	started := time.Now()
	log := logger.WithField("run", runID.String()[:8])
	ctx := shared.WithLogger(context.Background(), log)

	app, err := webdriver.NewAppServer(ctx, cfg.BaseURL, *fixture, log)
	if err != nil {
		log.WithError(err).Error("Failed to reach the portal")
		return 2
	}
	defer app.Close()
	if *fixture {
		cfg.BaseURL = app.GetPortalURL("/")
		fillFixtureCredentials(cfg)
		log.Infof("Serving fixture portal at %s", cfg.BaseURL)
	}

	var observer shared.TransitionObserver
	if cfg.Metrics.Address != "" {
		registry := prometheus.NewRegistry()
		o, err := metrics.NewObserver(registry)
		if err != nil {
			log.WithError(err).Error("Failed to register metrics")
			return 2
		}
		observer = o
		stop := serveMetrics(cfg.Metrics.Address, registry, log)
		defer stop()
	}

	driver, err := webdriver.StartDriver(cfg)
	if err != nil {
		log.WithError(err).Error("Failed to start selenium")
		return 2
	}
	defer func() {
		if err := driver.Stop(); err != nil {
			log.WithError(err).Warn("Failed to stop selenium")
		}
	}()

	evidenceDir := evidence.RunDir(cfg.Evidence.Dir, started, runID)
	suite := &steps.Suite{
		Config:      cfg,
		NewSession:  driver.NewSession,
		Log:         log,
		EvidenceDir: evidenceDir,
		Observer:    observer,
		Seed:        *seed,
	}
	log.WithFields(logrus.Fields{
		"browser":  cfg.Browser.Name,
		"baseURL":  cfg.BaseURL,
		"evidence": evidenceDir,
	}).Info("Starting suite")

	status := godog.TestSuite{
		Name:                "portal-bdd",
		ScenarioInitializer: suite.InitializeScenario,
		Options: &godog.Options{
			Format:      *format,
			Paths:       strings.Split(*features, ","),
			Tags:        *tags,
			Concurrency: *concurrency,
			Output:      os.Stdout,
		},
	}.Run()

	log.WithField("status", status).Infof("Suite finished in %s", shared.FormatSeconds(time.Since(started)))
	return status
}

func fillFixtureCredentials(cfg *shared.Config) {
	defaults := map[*string]string{
		&cfg.Email:        webdriver.FixtureEmail,
		&cfg.MobileNumber: webdriver.FixtureMobileNumber,
		&cfg.OTP:          webdriver.FixtureOTP,
		&cfg.SupportEmail: webdriver.FixtureSupportEmail,
	}
	for dst, v := range defaults {
		if strings.TrimSpace(*dst) == "" {
			*dst = v
		}
	}
}

func serveMetrics(addr string, g prometheus.Gatherer, log *logrus.Entry) (stop func()) {
	r := mux.NewRouter()
	r.Handle("/metrics", metrics.Handler(g))
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server failed")
		}
	}()
	log.Infof("Serving metrics on %s/metrics", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("Failed to stop metrics server")
		}
	}
}
