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
	"fmt"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

func flows(cands []Candidate) []float64 {
	out := make([]float64, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.TotalFlow)
	}
	return out
}

func TestGenerate_SearchOrder(t *testing.T) {
	gen := &CandidateGenerator{
		Drippers: []DripperType{
			dripper("small", 2, nil),
			dripper("big", 5, nil),
		},
	}

	res, err := gen.Generate(context.Background(), plant("p1", 10, 50, 2))
	require.NoError(t, err)

	// one emitter first, then two; each group by earliest feasible duration
	assert.Equal(t, []float64{5, 2, 10, 7, 4}, flows(res.Candidates))
	assert.Equal(t, []Usage{{Dripper: 1, Count: 1}}, res.Candidates[0].Allocation)
	assert.Equal(t, []Usage{{Dripper: 0, Count: 1}, {Dripper: 1, Count: 1}}, res.Candidates[3].Allocation)
	assert.Zero(t, res.Pruned)
	assert.Zero(t, res.Dominated)

	for _, c := range res.Candidates {
		assert.InDelta(t, 5/c.TotalFlow, c.TMin, 1e-12)
		assert.InDelta(t, 15/c.TotalFlow, c.TMax, 1e-12)
	}
}

func TestGenerate_MaxDurationPrunes(t *testing.T) {
	gen := &CandidateGenerator{
		Drippers: []DripperType{
			dripper("small", 1, nil),
			dripper("big", 5, nil),
		},
		MaxDurationHours: 1,
	}

	res, err := gen.Generate(context.Background(), plant("p1", 10, 0, 3))
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 15, 11}, flows(res.Candidates))
	assert.Equal(t, int64(1), res.Pruned)
	for _, c := range res.Candidates {
		assert.LessOrEqual(t, c.TMax, 1.0)
		assert.LessOrEqual(t, c.TMin, c.TMax)
	}
}

func TestGenerate_Dominance(t *testing.T) {
	tests := []struct {
		name          string
		drippers      []DripperType
		wantKept      int
		wantDominated int64
	}{
		{
			name:          "unlimited twins",
			drippers:      []DripperType{dripper("a", 2, nil), dripper("b", 2, nil)},
			wantKept:      1,
			wantDominated: 1,
		},
		{
			name:          "unlimited twin dominates budgeted",
			drippers:      []DripperType{dripper("a", 2, ptr.To(1)), dripper("b", 2, nil)},
			wantKept:      1,
			wantDominated: 1,
		},
		{
			name:          "budgeted twins both kept",
			drippers:      []DripperType{dripper("a", 2, ptr.To(1)), dripper("b", 2, ptr.To(1))},
			wantKept:      2,
			wantDominated: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &CandidateGenerator{Drippers: tt.drippers}
			res, err := gen.Generate(context.Background(), plant("p1", 10, 10, 1))
			require.NoError(t, err)
			assert.Len(t, res.Candidates, tt.wantKept)
			assert.Equal(t, tt.wantDominated, res.Dominated)
		})
	}
}

func TestGenerate_NoCandidates(t *testing.T) {
	tests := []struct {
		name     string
		drippers []DripperType
		plant    PlantRequirement
		maxHours float64
	}{
		{
			name:     "zero emitter limit",
			drippers: []DripperType{dripper("d1", 2, nil)},
			plant:    plant("p1", 10, 10, 0),
		},
		{
			name:     "all budgets empty",
			drippers: []DripperType{dripper("d1", 2, ptr.To(0)), dripper("d2", 4, ptr.To(0))},
			plant:    plant("p1", 10, 10, 5),
		},
		{
			name:     "cap unreachable",
			drippers: []DripperType{dripper("d1", 2, nil)},
			plant:    plant("p1", 100, 0, 2),
			maxHours: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &CandidateGenerator{Drippers: tt.drippers, MaxDurationHours: tt.maxHours}
			res, err := gen.Generate(context.Background(), tt.plant)
			require.NoError(t, err)
			assert.Empty(t, res.Candidates)
		})
	}
}

func TestGenerate_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &CandidateGenerator{
		Drippers:      []DripperType{dripper("d1", 2, nil)},
		CheckInterval: 1,
	}
	_, err := gen.Generate(ctx, plant("p1", 10, 10, 5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_Invariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := range 100 {
		req := randomRequest(rng)
		gen := &CandidateGenerator{
			Drippers:         req.AvailableDrippers,
			MaxDurationHours: req.maxDurationHours(),
		}

		for _, p := range req.Plants {
			res, err := gen.Generate(context.Background(), p)
			require.NoError(t, err)

			seen := make(map[string]bool)
			for j, c := range res.Candidates {
				key := fmt.Sprint(c.Allocation)
				assert.False(t, seen[key], "case %d: duplicate allocation %s", i, key)
				seen[key] = true

				assert.LessOrEqual(t, c.TMin, c.TMax)
				assert.Positive(t, c.TotalFlow)
				assert.LessOrEqual(t, c.TotalEmitters, p.MaxEmitterQuantity)

				n, flow := 0, 0.0
				for _, u := range c.Allocation {
					assert.Positive(t, u.Count)
					d := req.AvailableDrippers[u.Dripper]
					if d.Count != nil {
						assert.LessOrEqual(t, u.Count, *d.Count)
					}
					n += u.Count
					flow += d.FlowRateLPH * float64(u.Count)
				}
				assert.Equal(t, c.TotalEmitters, n)
				assert.InDelta(t, c.TotalFlow, flow, 1e-9)

				if j > 0 {
					prev := res.Candidates[j-1]
					assert.True(t, prev.TotalEmitters < c.TotalEmitters ||
						(prev.TotalEmitters == c.TotalEmitters && prev.TMin <= c.TMin),
						"case %d: candidates out of order", i)
				}
			}
		}
	}
}

// enumerateAll lists every feasible quantity vector in walk order, without
// any pruning.
func enumerateAll(drippers []DripperType, p PlantRequirement, maxHours float64) []Candidate {
	lo, hi := p.VolumeBand()
	counts := make([]int, len(drippers))
	var out []Candidate

	var walk func(i int, flow float64, emitters int)
	walk = func(i int, flow float64, emitters int) {
		if i == len(drippers) || emitters >= p.MaxEmitterQuantity {
			if flow <= 0 {
				return
			}
			tMin, tMax := lo/flow, hi/flow
			if maxHours > 0 {
				tMax = math.Min(tMax, maxHours)
			}
			if tMin > tMax {
				return
			}
			var alloc []Usage
			for idx, n := range counts {
				if n > 0 {
					alloc = append(alloc, Usage{Dripper: idx, Count: n})
				}
			}
			out = append(out, Candidate{Allocation: alloc, TotalFlow: flow, TotalEmitters: emitters, TMin: tMin, TMax: tMax})
			return
		}

		limit := p.MaxEmitterQuantity - emitters
		if c := drippers[i].Count; c != nil && *c < limit {
			limit = *c
		}
		for qty := 0; qty <= limit; qty++ {
			counts[i] = qty
			walk(i+1, flow+drippers[i].FlowRateLPH*float64(qty), emitters+qty)
		}
		counts[i] = 0
	}

	walk(0, 0, 0)
	return out
}

func TestGenerate_MatchesFullEnumeration(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	rates := []float64{1, 2, 3.3, 4.1, 5, 6.7}

	for i := range 150 {
		var drippers []DripperType
		for j := range 2 + rng.IntN(4) {
			var count *int
			if rng.IntN(2) == 0 {
				count = ptr.To(rng.IntN(5))
			}
			drippers = append(drippers, dripper(fmt.Sprintf("d%d", j), rates[rng.IntN(len(rates))], count))
		}
		p := plant("p1", float64(5+rng.IntN(40)), float64(rng.IntN(4)*5), 1+rng.IntN(10))
		var maxHours float64
		if rng.IntN(3) == 0 {
			maxHours = float64(1 + rng.IntN(4))
		}

		want, _ := orderCandidates(enumerateAll(drippers, p, maxHours), drippers)

		gen := &CandidateGenerator{Drippers: drippers, MaxDurationHours: maxHours}
		res, err := gen.Generate(context.Background(), p)
		require.NoError(t, err)

		require.Len(t, res.Candidates, len(want), "case %d", i)
		for j := range want {
			assert.Equal(t, want[j].Allocation, res.Candidates[j].Allocation, "case %d rank %d", i, j)
			assert.Equal(t, want[j].TotalFlow, res.Candidates[j].TotalFlow, "case %d rank %d", i, j)
		}
	}
}

func TestGenerate_LargeUnlimitedCatalogue(t *testing.T) {
	gen := &CandidateGenerator{
		Drippers: []DripperType{
			dripper("d1", 1, nil),
			dripper("d2", 2, nil),
			dripper("d3", 3.3, nil),
			dripper("d4", 4.1, nil),
			dripper("d5", 6.7, nil),
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := gen.Generate(ctx, plant("p1", 25, 5, 40))
	require.NoError(t, err)
	require.NotEmpty(t, res.Candidates)
	assert.Positive(t, res.Dominated)

	// with nothing budgeted one candidate per flow survives, the one with the
	// fewest emitters
	seen := make(map[float64]bool)
	for _, c := range res.Candidates {
		assert.False(t, seen[c.TotalFlow], "flow %v kept twice", c.TotalFlow)
		seen[c.TotalFlow] = true
	}
	assert.Equal(t, 1, res.Candidates[0].TotalEmitters)
}

func TestCandidate_Drippers(t *testing.T) {
	catalogue := []DripperType{dripper("a", 2, nil), dripper("b", 5, ptr.To(3))}
	c := &Candidate{Allocation: []Usage{{Dripper: 1, Count: 2}}}

	assert.Equal(t, []DripperAllocation{{DripperID: "b", FlowRateLPH: 5, Count: 2}}, c.Drippers(catalogue))
	assert.Empty(t, (&Candidate{}).Drippers(catalogue))
}
