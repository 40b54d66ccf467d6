// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/NVIDIA/drip-optimizer/pkg/logging"
	"github.com/NVIDIA/drip-optimizer/pkg/optimizer"
	"github.com/NVIDIA/drip-optimizer/pkg/server"
)

const (
	name           = "dripd"
	versionDefault = "dev"

	// OptimizePath is the per-plant optimization endpoint.
	OptimizePath = "/v1/optimization/per-plant"

	envOptimizeTimeout = "OPTIMIZE_TIMEOUT_SECONDS"
	envOptimizeWorkers = "OPTIMIZE_WORKERS"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/drip-optimizer/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
// It configures logging, sets up routes, and handles graceful shutdown.
// Returns an error if the server fails to start or encounters a fatal error.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	o := optimizer.New(optimizerOptions()...)
	slog.Info("optimizer configured",
		"timeout", o.Timeout,
		"workers", o.Workers,
	)

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(routes(o)),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

func routes(o *optimizer.Optimizer) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		OptimizePath: o.HandleOptimize,
	}
}

// optimizerOptions reads optimizer overrides from the environment.
// Unparseable or non-positive values are ignored.
func optimizerOptions() []optimizer.Option {
	var opts []optimizer.Option

	if v := os.Getenv(envOptimizeTimeout); v != "" {
		var seconds int
		if _, err := fmt.Sscanf(v, "%d", &seconds); err == nil && seconds > 0 {
			opts = append(opts, optimizer.WithTimeout(time.Duration(seconds)*time.Second))
		} else {
			slog.Warn("ignoring invalid optimizer timeout", "env", envOptimizeTimeout, "value", v)
		}
	}

	if v := os.Getenv(envOptimizeWorkers); v != "" {
		var workers int
		if _, err := fmt.Sscanf(v, "%d", &workers); err == nil && workers > 0 {
			opts = append(opts, optimizer.WithWorkers(workers))
		} else {
			slog.Warn("ignoring invalid optimizer workers", "env", envOptimizeWorkers, "value", v)
		}
	}

	return opts
}
