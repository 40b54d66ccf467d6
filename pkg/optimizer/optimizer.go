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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/drip-optimizer/pkg/defaults"
	dserrors "github.com/NVIDIA/drip-optimizer/pkg/errors"
)

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithTimeout sets the time budget of one optimization call.
// Zero or negative disables the optimizer's own deadline; the caller's
// context still applies.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Optimizer) {
		o.Timeout = timeout
	}
}

// WithWorkers sets the number of goroutines used by the global search.
// Values below 1 fall back to GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(o *Optimizer) {
		if workers > 0 {
			o.Workers = workers
		}
	}
}

// WithCheckInterval sets the number of nodes between context checks.
func WithCheckInterval(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.CheckInterval = n
		}
	}
}

// Optimizer assigns dripper combinations to plants so that all plants finish
// within one shared irrigation duration using as few emitters as possible.
type Optimizer struct {
	Timeout       time.Duration
	Workers       int
	CheckInterval int
}

// New returns an Optimizer with defaults applied before opts.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		Timeout:       defaults.OptimizeTimeout,
		Workers:       runtime.GOMAXPROCS(0),
		CheckInterval: defaults.SearchCheckInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize returns the optimal assignment for req.
//
// Errors carry one of the codes INVALID_REQUEST, NO_PLANT_SOLUTION,
// GLOBAL_INFEASIBLE, SEARCH_TIMEOUT or CANCELED. The result is identical
// for every worker count.
func (o *Optimizer) Optimize(ctx context.Context, req *Request) (*Response, error) {
	resp, _, err := o.OptimizeWithStats(ctx, req)
	return resp, err
}

// OptimizeWithStats is Optimize plus a summary of the work performed.
// Stats are returned for failed searches as well, except for invalid requests.
func (o *Optimizer) OptimizeWithStats(ctx context.Context, req *Request) (*Response, *SearchStats, error) {
	start := time.Now()

	resp, stats, err := o.optimize(ctx, req)

	elapsed := time.Since(start)
	optimizeDuration.Observe(elapsed.Seconds())
	optimizeTotal.WithLabelValues(outcomeOf(err)).Inc()
	if stats != nil {
		stats.Elapsed = elapsed
		searchNodesExplored.Add(float64(stats.NodesExplored))
		searchNodesPruned.Add(float64(stats.NodesPruned))
	}

	if err != nil {
		slog.Debug("optimization failed",
			"error", err,
			"duration", elapsed,
		)
		return nil, stats, err
	}

	slog.Info("optimization complete",
		"plants", len(resp.Plants),
		"emitters", resp.TotalDrippersUsed,
		"irrigationSeconds", resp.BaseIrrigationTimeSeconds,
		"explored", stats.NodesExplored,
		"elapsed", elapsed,
	)
	return resp, stats, nil
}

func (o *Optimizer) optimize(ctx context.Context, req *Request) (*Response, *SearchStats, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	stats := &SearchStats{
		CandidatesPerPlant: make(map[string]int, len(req.Plants)),
		Workers:            o.workers(),
	}

	sets, err := o.generate(ctx, req, stats)
	if err != nil {
		return nil, stats, err
	}

	gs := &GlobalSearch{
		Drippers:      req.AvailableDrippers,
		Workers:       stats.Workers,
		CheckInterval: o.CheckInterval,
	}
	res, err := gs.Run(ctx, sets)
	if res != nil {
		stats.NodesExplored = res.Explored
		stats.NodesPruned = res.Pruned
		stats.IncumbentUpdates = res.Updates
		slog.Debug("global search finished",
			"explored", res.Explored,
			"pruned", res.Pruned,
			"incumbentUpdates", res.Updates,
			"workers", stats.Workers,
		)
	}
	if err != nil {
		return nil, stats, abortedError(err, o.Timeout, stats.NodesExplored)
	}
	if res.Solution == nil {
		return nil, stats, globalInfeasibleError(len(req.Plants), stats.NodesExplored)
	}

	return BuildResponse(req.Plants, req.AvailableDrippers, res.Solution), stats, nil
}

// generate builds every plant's candidate set concurrently. When several plants
// have no candidates the first one in request order is reported.
func (o *Optimizer) generate(ctx context.Context, req *Request, stats *SearchStats) ([][]Candidate, error) {
	gen := &CandidateGenerator{
		Drippers:         req.AvailableDrippers,
		MaxDurationHours: req.maxDurationHours(),
		CheckInterval:    o.CheckInterval,
	}

	results := make([]*GenerateResult, len(req.Plants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stats.Workers)
	for i, plant := range req.Plants {
		g.Go(func() error {
			res, err := gen.Generate(gctx, plant)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, abortedError(err, o.Timeout, 0)
	}

	sets := make([][]Candidate, len(req.Plants))
	for i, plant := range req.Plants {
		res := results[i]
		stats.CandidatesPerPlant[plant.PlantID] = len(res.Candidates)
		stats.GenerationPruned += res.Pruned
		stats.DominatedDropped += res.Dominated
		plantCandidates.Observe(float64(len(res.Candidates)))
		sets[i] = res.Candidates

		slog.Debug("candidates generated",
			"plant", plant.PlantID,
			"candidates", len(res.Candidates),
			"pruned", res.Pruned,
			"dominated", res.Dominated,
		)
	}
	for i, plant := range req.Plants {
		if len(sets[i]) == 0 {
			return nil, noPlantSolutionError(plant.PlantID)
		}
	}
	return sets, nil
}

// Candidates validates req and returns the candidate set of the named plant in
// search order, without running the global search.
func (o *Optimizer) Candidates(ctx context.Context, req *Request, plantID string) (*GenerateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(req.Plants, func(p PlantRequirement) bool {
		return p.PlantID == plantID
	})
	if idx < 0 {
		return nil, dserrors.NewWithContext(dserrors.ErrCodeNotFound,
			fmt.Sprintf("plant %q not found in request", plantID),
			map[string]any{
				"plant_id": plantID,
			})
	}

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	gen := &CandidateGenerator{
		Drippers:         req.AvailableDrippers,
		MaxDurationHours: req.maxDurationHours(),
		CheckInterval:    o.CheckInterval,
	}
	res, err := gen.Generate(ctx, req.Plants[idx])
	if err != nil {
		return nil, abortedError(err, o.Timeout, 0)
	}
	return res, nil
}

func (o *Optimizer) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeOptimal
	}
	code, ok := dserrors.CodeOf(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return outcomeTimeout
		}
		return outcomeCanceled
	}
	switch code {
	case dserrors.ErrCodeInvalidRequest:
		return outcomeInvalid
	case dserrors.ErrCodeNoPlantSolution:
		return outcomeNoPlantSolution
	case dserrors.ErrCodeGlobalInfeasible:
		return outcomeInfeasible
	case dserrors.ErrCodeSearchTimeout:
		return outcomeTimeout
	default:
		return outcomeCanceled
	}
}
