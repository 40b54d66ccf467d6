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
// Package optimizer assigns drip emitters to plants.
//
// Every plant must receive a volume inside its tolerance band while all plants
// run for one shared irrigation duration. The optimizer minimizes the total
// number of emitters, then the duration, honoring the global count of every
// dripper type.
//
// The search runs in two phases:
//
//  1. CandidateGenerator enumerates, per plant and in parallel, every dripper
//     quantity vector within the plant's emitter limit and derives the
//     duration interval [TMin, TMax] in which the plant's volume is in band.
//     Candidates are sorted by emitters and TMin; candidates with the same
//     flow as an earlier one and no lower budgeted usage are dropped.
//  2. GlobalSearch picks one candidate per plant with branch-and-bound. A
//     partial assignment is cut when its emitter lower bound exceeds the
//     incumbent, its interval intersection is empty, its duration cannot beat
//     the incumbent, or a dripper budget would be exceeded. First-plant
//     subtrees are explored by a bounded pool of goroutines sharing an atomic
//     incumbent.
//
// Solutions are ordered by (emitters, duration, per-plant candidate ranks).
// The order is total, so the result does not depend on the worker count.
//
// # Usage
//
//	o := optimizer.New(optimizer.WithTimeout(10 * time.Second))
//	resp, err := o.Optimize(ctx, req)
//	switch {
//	case optimizer.IsNoPlantSolution(err):
//	case optimizer.IsGlobalInfeasible(err):
//	case optimizer.IsSearchTimeout(err):
//	}
//
// # Errors
//
// Every failure is a StructuredError from pkg/errors:
//
//   - INVALID_REQUEST: the request violates the input contract
//   - NO_PLANT_SOLUTION: one plant has no candidate on its own
//   - GLOBAL_INFEASIBLE: no joint assignment exists
//   - SEARCH_TIMEOUT: the time budget ran out before the search finished
//   - CANCELED: the caller canceled the context
//
// # HTTP
//
// HandleOptimize serves POST /v1/optimization/per-plant with JSON or YAML
// request bodies.
package optimizer
