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
	"log/slog"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/drip-optimizer/pkg/defaults"
)

// GlobalSearch picks one candidate per plant so that all plants share one
// irrigation duration and the global dripper budgets hold, minimizing total
// emitters, then duration, then the per-plant candidate rank vector.
type GlobalSearch struct {
	Drippers []DripperType

	// Workers bounds the goroutines exploring first-plant subtrees.
	// Values below 2 run the search on the calling goroutine.
	Workers int

	// CheckInterval is the number of explored nodes between context checks.
	CheckInterval int
}

// SearchResult is the outcome of a completed global search.
type SearchResult struct {
	// Solution is nil when no joint assignment exists.
	Solution *Solution
	Explored int64
	Pruned   int64
	Updates  int64
}

// Run explores candidate combinations with branch-and-bound. sets[i] holds the
// candidates of plant i in search order and must be non-empty.
// A context error is returned unwrapped together with the partial counters.
func (gs *GlobalSearch) Run(ctx context.Context, sets [][]Candidate) (*SearchResult, error) {
	s := &search{
		sets:       sets,
		drippers:   gs.Drippers,
		minTail:    minEmitterTail(sets),
		checkEvery: gs.CheckInterval,
	}
	if s.checkEvery <= 0 {
		s.checkEvery = defaults.SearchCheckInterval
	}

	var err error
	if gs.Workers < 2 || len(sets) < 2 {
		w := s.newWorker(ctx)
		err = w.descend(0, 0, math.Inf(1))
		w.flush()
	} else {
		err = s.parallel(ctx, gs.Workers)
	}

	res := &SearchResult{
		Explored: s.explored.Load(),
		Pruned:   s.pruned.Load(),
		Updates:  s.updates.Load(),
	}
	if err != nil {
		return res, err
	}
	if best := s.best.Load(); best != nil {
		res.Solution = best.solution()
	}
	return res, nil
}

// parallel fans the first plant's candidates out as independent subtrees.
// Subtrees are submitted in rank order so the incumbent tightens early.
func (s *search) parallel(ctx context.Context, workers int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for idx := range s.sets[0] {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			w := s.newWorker(gctx)
			defer w.flush()
			_, err := w.try(0, idx, 0, math.Inf(1))
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

type search struct {
	sets       [][]Candidate
	drippers   []DripperType
	minTail    []int
	checkEvery int

	best     atomic.Pointer[incumbent]
	explored atomic.Int64
	pruned   atomic.Int64
	updates  atomic.Int64
}

// incumbent is an immutable snapshot of the best complete assignment so far.
type incumbent struct {
	emitters int
	duration float64
	ranks    []int
	picks    []*Candidate
}

// better is the strict total order on complete assignments.
func (a *incumbent) better(b *incumbent) bool {
	if b == nil {
		return true
	}
	if a.emitters != b.emitters {
		return a.emitters < b.emitters
	}
	if a.duration != b.duration {
		return a.duration < b.duration
	}
	return compareRanks(a.ranks, b.ranks) < 0
}

func (a *incumbent) solution() *Solution {
	return &Solution{
		Picks:         a.picks,
		Ranks:         a.ranks,
		Duration:      a.duration,
		TotalEmitters: a.emitters,
	}
}

// offer installs c as the incumbent if it is strictly better. The CAS loop
// retries when another worker replaced the incumbent in between.
func (s *search) offer(c *incumbent) bool {
	for {
		cur := s.best.Load()
		if !c.better(cur) {
			return false
		}
		if s.best.CompareAndSwap(cur, c) {
			s.updates.Add(1)
			slog.Debug("incumbent improved",
				"emitters", c.emitters,
				"durationHours", c.duration,
			)
			return true
		}
	}
}

// worker owns the mutable state of one depth-first walk.
type worker struct {
	s        *search
	ctx      context.Context
	usage    []int
	picks    []*Candidate
	ranks    []int
	emitters int
	explored int64
	pruned   int64
}

func (s *search) newWorker(ctx context.Context) *worker {
	return &worker{
		s:     s,
		ctx:   ctx,
		usage: make([]int, len(s.drippers)),
		picks: make([]*Candidate, len(s.sets)),
		ranks: make([]int, len(s.sets)),
	}
}

func (w *worker) flush() {
	w.s.explored.Add(w.explored)
	w.s.pruned.Add(w.pruned)
	w.explored, w.pruned = 0, 0
}

// descend tries every candidate of plant p given the running interval.
func (w *worker) descend(p int, tMin, tMax float64) error {
	if p == len(w.s.sets) {
		w.complete(tMin)
		return nil
	}
	for idx := range w.s.sets[p] {
		stop, err := w.try(p, idx, tMin, tMax)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// try extends the partial assignment with candidate idx of plant p. stop is
// true when no later candidate of p can beat the incumbent either.
func (w *worker) try(p, idx int, tMin, tMax float64) (stop bool, err error) {
	w.explored++
	if w.explored%int64(w.s.checkEvery) == 0 {
		if err := w.ctx.Err(); err != nil {
			return true, err
		}
	}

	c := &w.s.sets[p][idx]
	emitters := w.emitters + c.TotalEmitters
	bound := emitters + w.s.minTail[p+1]

	best := w.s.best.Load()
	if best != nil && bound > best.emitters {
		// candidates are sorted by emitters, the rest of p is no better
		w.pruned++
		return true, nil
	}

	lo := math.Max(tMin, c.TMin)
	hi := math.Min(tMax, c.TMax)
	if lo > hi {
		w.pruned++
		return false, nil
	}

	if best != nil && bound == best.emitters {
		if lo > best.duration {
			w.pruned++
			return false, nil
		}
		if lo == best.duration {
			w.ranks[p] = idx
			if compareRanks(w.ranks[:p+1], best.ranks[:p+1]) > 0 {
				w.pruned++
				return false, nil
			}
		}
	}

	if !w.reserve(c) {
		w.pruned++
		return false, nil
	}

	w.emitters = emitters
	w.picks[p] = c
	w.ranks[p] = idx

	err = w.descend(p+1, lo, hi)

	w.emitters -= c.TotalEmitters
	w.release(c)
	return false, err
}

func (w *worker) complete(duration float64) {
	picks := make([]*Candidate, len(w.picks))
	copy(picks, w.picks)
	ranks := make([]int, len(w.ranks))
	copy(ranks, w.ranks)

	w.s.offer(&incumbent{
		emitters: w.emitters,
		duration: duration,
		ranks:    ranks,
		picks:    picks,
	})
}

// reserve adds c's usage to the running totals if every budgeted type stays
// within its count. On failure the totals are left unchanged.
func (w *worker) reserve(c *Candidate) bool {
	for _, u := range c.Allocation {
		if limit := w.s.drippers[u.Dripper].Count; limit != nil && w.usage[u.Dripper]+u.Count > *limit {
			return false
		}
	}
	for _, u := range c.Allocation {
		w.usage[u.Dripper] += u.Count
	}
	return true
}

func (w *worker) release(c *Candidate) {
	for _, u := range c.Allocation {
		w.usage[u.Dripper] -= u.Count
	}
}

// minEmitterTail returns tail[i] = sum of the smallest emitter count of plants i..
// with tail[len(sets)] = 0.
func minEmitterTail(sets [][]Candidate) []int {
	tail := make([]int, len(sets)+1)
	for i := len(sets) - 1; i >= 0; i-- {
		least := 0
		if len(sets[i]) > 0 {
			least = sets[i][0].TotalEmitters
		}
		tail[i] = tail[i+1] + least
	}
	return tail
}

func compareRanks(a, b []int) int {
	for i := range a {
		if i >= len(b) {
			return 1
		}
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	if len(a) < len(b) {
		return -1
	}
	return 0
}
