// Package api provides the HTTP API layer for the drip irrigation optimizer.
//
// This package acts as a thin wrapper around the reusable pkg/server package,
// configuring it with the optimizer's routes and handlers.
//
// # Usage
//
// To start the API server:
//
//	package main
//
//	import (
//	    "log"
//	    "github.com/NVIDIA/drip-optimizer/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Endpoints
//
// Application Endpoints (with rate limiting):
//   - POST /v1/optimization/per-plant - Optimize dripper assignment (JSON/YAML body)
//
// System Endpoints (no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//
// Example curl command:
//
//	curl -X POST http://localhost:8080/v1/optimization/per-plant \
//	  -H "Content-Type: application/json" \
//	  -d @request.json
//
// Failures are returned as structured errors. NO_PLANT_SOLUTION and
// GLOBAL_INFEASIBLE map to 422, SEARCH_TIMEOUT to 504 and validation
// failures to 400.
//
// # Configuration
//
// The server is configured via environment variables:
//   - PORT: HTTP server port (default: 8080)
//   - LOG_LEVEL: Logging level (debug, info, warn, error)
//   - SHUTDOWN_TIMEOUT_SECONDS: Graceful shutdown budget
//   - OPTIMIZE_TIMEOUT_SECONDS: Time budget of one optimization (default: 25)
//   - OPTIMIZE_WORKERS: Search goroutines (default: GOMAXPROCS)
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/drip-optimizer/pkg/api.version=1.0.0'"
package api
