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

package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for optimizeTotal.
const (
	outcomeOptimal         = "optimal"
	outcomeInvalid         = "invalid_request"
	outcomeNoPlantSolution = "no_plant_solution"
	outcomeInfeasible      = "global_infeasible"
	outcomeTimeout         = "timeout"
	outcomeCanceled        = "canceled"
)

var (
	optimizeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dripopt_optimize_duration_seconds",
			Help:    "Duration of per-plant optimization calls in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	optimizeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dripopt_optimize_total",
			Help: "Total number of optimization calls by outcome",
		},
		[]string{"outcome"},
	)

	plantCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dripopt_plant_candidates",
			Help:    "Number of candidates generated per plant",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	searchNodesExplored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dripopt_search_nodes_explored_total",
			Help: "Total number of partial assignments explored by the global search",
		},
	)

	searchNodesPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dripopt_search_nodes_pruned_total",
			Help: "Total number of partial assignments cut by branch-and-bound",
		},
	)
)
