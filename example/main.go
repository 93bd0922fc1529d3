// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main runs a small user directory behind the pagination middleware.
//
//	go run ./example -config example/pagination.yaml
//	curl 'http://localhost:8080/users?page=2&limit=5'
//	curl 'http://localhost:8080/users?pagination=false'
//	curl 'http://localhost:8080/metrics'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	riverrors "rivaas.dev/errors"
	"rivaas.dev/logging"
	"rivaas.dev/middleware/pagination"
	"rivaas.dev/middleware/pagination/config"
	"rivaas.dev/middleware/pagination/config/codec"
	"rivaas.dev/router"
)

type user struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "", "pagination config file (yaml, json or toml)")
	flag.Parse()

	logger := logging.MustNew(
		logging.WithJSONHandler(),
		logging.WithDebugLevel(),
		logging.WithServiceName("pagination-example"),
		logging.WithServiceVersion("v0.1.0"),
	).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []config.Option{config.WithEnv("PAGINATION_")}
	if *configPath != "" {
		opts = append([]config.Option{config.WithFile(*configPath)}, opts...)
	}
	cfg, err := config.Load(ctx, opts...)
	if err != nil {
		logger.Error("failed to load pagination config", "error", err)
		os.Exit(1)
	}
	if dump, dumpErr := config.Encode(cfg, codec.TypeYAML); dumpErr == nil {
		logger.Debug("effective pagination config", "yaml", string(dump))
	}

	// Custom Prometheus registry, same as rivaas.dev/metrics does
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		logger.Error("failed to create prometheus exporter", "error", err)
		os.Exit(1)
	}
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = meterProvider.Shutdown(shutdownCtx)
	}()

	// Keep the scraping endpoint out of scope, it is not a list.
	cfg.Routes.Exclude = append(cfg.Routes.Exclude, "/metrics", "/health")

	paginate, err := pagination.New(
		pagination.WithConfig(cfg),
		pagination.WithLogger(logger),
		pagination.WithMeterProvider(meterProvider),
		pagination.WithErrorFormatter(riverrors.NewRFC9457("https://api.example.com/problems")),
	)
	if err != nil {
		logger.Error("invalid pagination config", "error", err)
		os.Exit(1)
	}

	r := router.MustNew()
	r.Use(paginate)

	dir := newDirectory(137)
	r.GET("/users", dir.list)
	r.GET("/users/plain", dir.plain)
	r.GET("/health", func(c *router.Context) {
		//nolint:errcheck // Example handler
		c.String(http.StatusOK, "ok")
	})

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	r.GET("/metrics", func(c *router.Context) {
		metricsHandler.ServeHTTP(c.Response, c.Request)
	})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("server shutdown failed", "error", shutdownErr)
		}
	}()

	logger.Info("server starting", "addr", *addr)
	printUsage(*addr)
	if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
	}
}

func printUsage(addr string) {
	console := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})

	base := "http://localhost" + addr
	console.Info("Server starting on " + base)
	console.Print("")
	console.Print("Available endpoints:")
	console.Print("  GET /users          # results object with totalCount")
	console.Print("  GET /users/plain    # bare array, total set with SetTotalCount")
	console.Print("  GET /health         # excluded from pagination")
	console.Print("  GET /metrics        # Prometheus scrape endpoint")
	console.Print("")
	console.Print("Example commands:")
	console.Print("  curl '" + base + "/users?page=2&limit=5'")
	console.Print("  curl '" + base + "/users?pagination=false'")
	console.Print("  curl '" + base + "/users?limit=lots'      # 400 with the badRequest policy")
	console.Print("  curl '" + base + "/metrics' | grep pagination_")
}

type directory struct {
	users []user
}

func newDirectory(n int) *directory {
	users := make([]user, n)
	for i := range users {
		users[i] = user{
			ID:    i + 1,
			Name:  fmt.Sprintf("User %d", i+1),
			Email: fmt.Sprintf("user%d@example.com", i+1),
		}
	}

	return &directory{users: users}
}

// list slices the directory itself and reports the total in the body.
func (d *directory) list(c *router.Context) {
	p, ok := pagination.Get(c)
	if !ok || !p.Enabled {
		//nolint:errcheck // Example handler
		c.JSON(http.StatusOK, d.users)
		return
	}

	start := min(p.Offset(), len(d.users))
	end := min(start+max(p.Limit, 0), len(d.users))

	//nolint:errcheck // Example handler
	c.JSON(http.StatusOK, pagination.Page(d.users[start:end], len(d.users)))
}

// plain answers with a bare array and reports the total out of band.
func (d *directory) plain(c *router.Context) {
	page := d.users
	if p, ok := pagination.Get(c); ok && p.Enabled {
		start := min(p.Offset(), len(d.users))
		page = d.users[start:min(start+max(p.Limit, 0), len(d.users))]
		pagination.SetTotalCount(c, len(d.users))
	}

	//nolint:errcheck // Example handler
	c.JSON(http.StatusOK, page)
}
