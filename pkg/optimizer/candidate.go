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
	"math"
	"slices"
	"sort"

	"github.com/NVIDIA/drip-optimizer/pkg/defaults"
)

const flowSlack = 1e-9

// CandidateGenerator enumerates every feasible allocation of the dripper
// catalogue for a single plant.
type CandidateGenerator struct {
	// Drippers is the catalogue, in the order the enumeration visits it.
	Drippers []DripperType

	// MaxDurationHours caps candidate durations. Zero means uncapped.
	MaxDurationHours float64

	// CheckInterval is the number of enumeration nodes between context checks.
	CheckInterval int
}

// GenerateResult holds the candidates for one plant in search order.
type GenerateResult struct {
	Candidates []Candidate

	// Pruned counts enumeration branches cut because they could never reach
	// the flow needed to finish inside MaxDurationHours.
	Pruned int64

	// Dominated counts enumeration states and candidates dropped because an
	// earlier one with the same flow used no more emitters and no more of any
	// budgeted dripper type.
	Dominated int64
}

// Generate returns the plant's candidates ordered by emitter count, then
// earliest feasible duration, then enumeration order. That order is also the
// rank used to break ties between otherwise equal solutions.
func (g *CandidateGenerator) Generate(ctx context.Context, plant PlantRequirement) (*GenerateResult, error) {
	minVolume, maxVolume := plant.VolumeBand()

	e := &enumeration{
		ctx:        ctx,
		drippers:   g.Drippers,
		budget:     plant.MaxEmitterQuantity,
		minVolume:  minVolume,
		maxVolume:  maxVolume,
		maxTime:    g.MaxDurationHours,
		counts:     make([]int, len(g.Drippers)),
		checkEvery: g.CheckInterval,
		seen:       make(map[stateKey][]stateEntry),
	}
	for _, d := range g.Drippers {
		if !d.Unlimited() {
			e.budgeted = true
			break
		}
	}
	if e.checkEvery <= 0 {
		e.checkEvery = defaults.SearchCheckInterval
	}
	if e.maxTime > 0 {
		// loose lower bound, emit performs the exact interval check
		e.minFlow = minVolume / e.maxTime * (1 - flowSlack)
		e.byFlow = suffixByFlow(g.Drippers)
	}

	if err := e.walk(0, 0, 0); err != nil {
		return nil, err
	}

	kept, dominated := orderCandidates(e.out, g.Drippers)

	return &GenerateResult{
		Candidates: kept,
		Pruned:     e.pruned,
		Dominated:  e.dominated + dominated,
	}, nil
}

// enumeration is the depth-first walk over dripper quantities. counts is the
// single mutable allocation, set on the way down and reset on the way up.
type enumeration struct {
	ctx        context.Context
	drippers   []DripperType
	budget     int
	minVolume  float64
	maxVolume  float64
	maxTime    float64
	minFlow    float64
	byFlow     [][]int
	counts     []int
	out        []Candidate
	nodes      int
	checkEvery int
	pruned     int64
	dominated  int64
	budgeted   bool
	seen       map[stateKey][]stateEntry
}

// stateKey identifies enumeration nodes that can still reach exactly the same
// flows: same depth, same accumulated flow.
type stateKey struct {
	depth int
	flow  float64
}

// stateEntry is a visited node under a stateKey. usage holds the quantities of
// the types before depth, and is nil when no type has a finite count.
type stateEntry struct {
	emitters int
	usage    []int
}

// walk visits dripper type i with the given accumulated flow and emitter count.
// Every distinct quantity vector is emitted exactly once: at the last type, or
// as soon as the emitter budget is exhausted.
func (e *enumeration) walk(i int, flow float64, emitters int) error {
	e.nodes++
	if e.nodes%e.checkEvery == 0 {
		if err := e.ctx.Err(); err != nil {
			return err
		}
	}

	// an exhausted budget leaves only the current vector, which is a leaf
	if emitters >= e.budget {
		i = len(e.drippers)
	}

	if i < len(e.drippers) && e.minFlow > 0 && flow+e.reachableFlow(i, e.budget-emitters) < e.minFlow {
		e.pruned++
		return nil
	}

	if e.dominatedState(i, flow, emitters) {
		e.dominated++
		return nil
	}

	if i == len(e.drippers) {
		e.emit(flow, emitters)
		return nil
	}

	d := e.drippers[i]
	limit := e.budget - emitters
	if d.Count != nil && *d.Count < limit {
		limit = *d.Count
	}

	for qty := 0; qty <= limit; qty++ {
		e.counts[i] = qty
		if err := e.walk(i+1, flow+d.FlowRateLPH*float64(qty), emitters+qty); err != nil {
			e.counts[i] = 0
			return err
		}
	}
	e.counts[i] = 0
	return nil
}

func (e *enumeration) emit(flow float64, emitters int) {
	if flow <= 0 {
		return
	}

	tMin := e.minVolume / flow
	tMax := e.maxVolume / flow
	if e.maxTime > 0 {
		tMax = math.Min(tMax, e.maxTime)
	}
	if tMin > tMax {
		return
	}

	alloc := make([]Usage, 0, len(e.counts))
	for idx, n := range e.counts {
		if n > 0 {
			alloc = append(alloc, Usage{Dripper: idx, Count: n})
		}
	}

	e.out = append(e.out, Candidate{
		Allocation:    alloc,
		TotalFlow:     flow,
		TotalEmitters: emitters,
		TMin:          tMin,
		TMax:          tMax,
	})
}

// dominatedState records the node and reports whether an earlier node with the
// same key used no more emitters and no more of any budgeted type. Every
// vector below such a node has a twin below the earlier one with the same flow,
// fewer or equal emitters and no more budgeted usage, so the whole subtree
// would be dropped by orderCandidates anyway.
func (e *enumeration) dominatedState(depth int, flow float64, emitters int) bool {
	key := stateKey{depth: depth, flow: flow}
	entries := e.seen[key]

	for _, s := range entries {
		if s.emitters <= emitters && e.usageLE(s.usage, e.counts[:depth]) {
			return true
		}
	}

	var usage []int
	if e.budgeted {
		usage = slices.Clone(e.counts[:depth])
	}
	entries = slices.DeleteFunc(entries, func(s stateEntry) bool {
		return emitters <= s.emitters && e.usageLE(usage, s.usage)
	})
	e.seen[key] = append(entries, stateEntry{emitters: emitters, usage: usage})
	return false
}

// usageLE reports whether a uses no more than b of every budgeted type. Both
// are prefixes of the same depth, or nil when nothing is budgeted.
func (e *enumeration) usageLE(a, b []int) bool {
	for idx, n := range a {
		if n > b[idx] && !e.drippers[idx].Unlimited() {
			return false
		}
	}
	return true
}

// reachableFlow is the largest flow obtainable from dripper types i.. with the
// given number of emitters left, filling the fastest types first.
func (e *enumeration) reachableFlow(i, budget int) float64 {
	var flow float64
	for _, idx := range e.byFlow[i] {
		if budget == 0 {
			break
		}
		n := budget
		if c := e.drippers[idx].Count; c != nil && *c < n {
			n = *c
		}
		flow += e.drippers[idx].FlowRateLPH * float64(n)
		budget -= n
	}
	return flow
}

// suffixByFlow returns, for every i, the indices of types i.. sorted by
// descending flow rate.
func suffixByFlow(drippers []DripperType) [][]int {
	out := make([][]int, len(drippers)+1)
	for i := range drippers {
		idx := make([]int, 0, len(drippers)-i)
		for j := i; j < len(drippers); j++ {
			idx = append(idx, j)
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return drippers[idx[a]].FlowRateLPH > drippers[idx[b]].FlowRateLPH
		})
		out[i] = idx
	}
	return out
}

// orderCandidates sorts candidates into search order and drops dominated ones.
// A candidate is dominated when an earlier one has exactly the same flow (and so
// the same duration interval) and uses no more of any budgeted dripper type.
// Replacing it with the earlier one can never make a solution worse.
func orderCandidates(cands []Candidate, drippers []DripperType) ([]Candidate, int64) {
	sort.SliceStable(cands, func(a, b int) bool {
		if cands[a].TotalEmitters != cands[b].TotalEmitters {
			return cands[a].TotalEmitters < cands[b].TotalEmitters
		}
		return cands[a].TMin < cands[b].TMin
	})

	var dropped int64
	kept := make([]Candidate, 0, len(cands))
	byFlow := make(map[float64][]int)

	for _, c := range cands {
		dominated := false
		for _, k := range byFlow[c.TotalFlow] {
			if budgetedUsageLE(kept[k].Allocation, c.Allocation, drippers) {
				dominated = true
				break
			}
		}
		if dominated {
			dropped++
			continue
		}
		byFlow[c.TotalFlow] = append(byFlow[c.TotalFlow], len(kept))
		kept = append(kept, c)
	}
	return kept, dropped
}

// budgetedUsageLE reports whether a uses no more than b of every dripper type
// that has a finite count.
func budgetedUsageLE(a, b []Usage, drippers []DripperType) bool {
	for _, ua := range a {
		if drippers[ua.Dripper].Unlimited() {
			continue
		}
		if ua.Count > usageOf(b, ua.Dripper) {
			return false
		}
	}
	return true
}

func usageOf(alloc []Usage, dripper int) int {
	for _, u := range alloc {
		if u.Dripper == dripper {
			return u.Count
		}
	}
	return 0
}

// Drippers expands the candidate allocation against the catalogue.
func (c *Candidate) Drippers(catalogue []DripperType) []DripperAllocation {
	out := make([]DripperAllocation, 0, len(c.Allocation))
	for _, u := range c.Allocation {
		d := catalogue[u.Dripper]
		out = append(out, DripperAllocation{
			DripperID:   d.DripperID,
			FlowRateLPH: d.FlowRateLPH,
			Count:       u.Count,
		})
	}
	return out
}
