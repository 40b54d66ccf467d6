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

// Package server provides the HTTP server that hosts the drip optimizer API.
//
// The server is stateless. API routes are supplied by the caller and wrapped
// with a fixed middleware chain:
//
//   - Prometheus RED metrics
//   - API version negotiation (X-API-Version)
//   - Request ID tracking (X-Request-Id, UUID)
//   - Panic recovery
//   - Token bucket rate limiting (golang.org/x/time/rate)
//   - Request body size limit
//   - Debug request logging
//
// # Usage
//
//	s := server.New(
//	    server.WithName("dripd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/optimization/per-plant": o.HandleOptimize,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Custom configuration:
//
//	cfg := server.NewConfig()
//	cfg.Port = 9090
//	cfg.RateLimit = 200
//	s := server.New(server.WithConfig(cfg), server.WithHandler(routes))
//
// # System Endpoints
//
//	GET /         - name, version, readiness and routes
//	GET /health   - liveness, always 200
//	GET /ready    - readiness, 503 until started and during shutdown
//	GET /metrics  - Prometheus metrics
//
// # Errors
//
// Failed API requests return an ErrorResponse:
//
//	{
//	  "code": "GLOBAL_INFEASIBLE",
//	  "message": "no joint assignment satisfies ...",
//	  "details": {"plants": 3},
//	  "requestId": "6f1c...",
//	  "timestamp": "2025-01-01T00:00:00Z",
//	  "retryable": false
//	}
//
// HTTPStatusFromCode maps error codes to statuses: INVALID_REQUEST 400,
// NO_PLANT_SOLUTION and GLOBAL_INFEASIBLE 422, RATE_LIMIT_EXCEEDED 429,
// CANCELED 503, SEARCH_TIMEOUT 504.
//
// # Configuration
//
//   - PORT: listen port (default 8080)
//   - SHUTDOWN_TIMEOUT_SECONDS: graceful shutdown budget (default 30)
package server
