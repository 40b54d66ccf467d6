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
	"math"
	"time"
)

// SecondsPerHour converts candidate durations (hours) to response durations (seconds).
const SecondsPerHour = 3600.0

// DripperType is one kind of emitter in the catalogue offered to the optimizer.
type DripperType struct {
	// DripperID identifies the dripper type within a request.
	DripperID string `json:"dripper_id" yaml:"dripper_id"`

	// FlowRateLPH is the flow of a single emitter in liters per hour.
	FlowRateLPH float64 `json:"flow_rate_lph" yaml:"flow_rate_lph"`

	// Count is the number of units available across all plants.
	// Nil means the type is unlimited.
	Count *int `json:"count" yaml:"count"`
}

// Unlimited reports whether the dripper type has no global budget.
func (d DripperType) Unlimited() bool {
	return d.Count == nil
}

// PlantRequirement describes the water a single plant needs per irrigation.
type PlantRequirement struct {
	PlantID            string  `json:"plant_id" yaml:"plant_id"`
	TargetVolumeLiters float64 `json:"target_volume_liters" yaml:"target_volume_liters"`
	TolerancePercent   float64 `json:"tolerance_percent" yaml:"tolerance_percent"`
	MaxEmitterQuantity int     `json:"max_emitter_quantity" yaml:"max_emitter_quantity"`
}

// VolumeBand returns the acceptable delivered volume range in liters.
// The lower bound never drops below zero.
func (p PlantRequirement) VolumeBand() (minVolume, maxVolume float64) {
	tol := p.TargetVolumeLiters * (p.TolerancePercent / 100)
	return math.Max(0, p.TargetVolumeLiters-tol), p.TargetVolumeLiters + tol
}

// Request is the per-plant optimization request.
type Request struct {
	Plants            []PlantRequirement `json:"plants" yaml:"plants"`
	AvailableDrippers []DripperType      `json:"available_drippers" yaml:"available_drippers"`

	// MaxIrrigationTimeSeconds caps the shared irrigation duration.
	// Nil means no cap.
	MaxIrrigationTimeSeconds *float64 `json:"max_irrigation_time_seconds,omitempty" yaml:"max_irrigation_time_seconds,omitempty"`
}

// maxDurationHours returns the duration cap in hours, or 0 when uncapped.
func (r *Request) maxDurationHours() float64 {
	if r.MaxIrrigationTimeSeconds == nil {
		return 0
	}
	return *r.MaxIrrigationTimeSeconds / SecondsPerHour
}

// DripperAllocation is a number of emitters of one dripper type.
type DripperAllocation struct {
	DripperID   string  `json:"dripper_id" yaml:"dripper_id"`
	FlowRateLPH float64 `json:"flow_rate_lph" yaml:"flow_rate_lph"`
	Count       int     `json:"count" yaml:"count"`
}

// PlantResult is the allocation chosen for a single plant.
type PlantResult struct {
	PlantID            string              `json:"plant_id" yaml:"plant_id"`
	ActualVolumeLiters float64             `json:"actual_volume_liters" yaml:"actual_volume_liters"`
	AssignedDrippers   []DripperAllocation `json:"assigned_drippers" yaml:"assigned_drippers"`
}

// Response is the per-plant optimization result.
type Response struct {
	Plants                    []PlantResult       `json:"plants" yaml:"plants"`
	TotalDrippersUsed         int                 `json:"total_drippers_used" yaml:"total_drippers_used"`
	DrippersUsedDetail        []DripperAllocation `json:"drippers_used_detail" yaml:"drippers_used_detail"`
	TotalBaseVolumeLiters     float64             `json:"total_base_volume_liters" yaml:"total_base_volume_liters"`
	TotalFlowLPH              float64             `json:"total_flow_lph" yaml:"total_flow_lph"`
	BaseIrrigationTimeSeconds float64             `json:"base_irrigation_time_seconds" yaml:"base_irrigation_time_seconds"`
}

// Usage is the number of emitters of the dripper type at catalogue index Dripper.
type Usage struct {
	Dripper int `json:"dripper" yaml:"dripper"`
	Count   int `json:"count" yaml:"count"`
}

// Candidate is one feasible allocation for a single plant together with the
// range of durations (hours) for which it keeps the plant inside its volume band.
type Candidate struct {
	// Allocation lists non-zero usages in catalogue order.
	Allocation    []Usage
	TotalFlow     float64
	TotalEmitters int
	TMin          float64
	TMax          float64
}

// Solution is one candidate per plant plus the shared duration in hours.
type Solution struct {
	Picks         []*Candidate
	Ranks         []int
	Duration      float64
	TotalEmitters int
}

// SearchStats summarizes the work done by a single optimization call.
type SearchStats struct {
	CandidatesPerPlant map[string]int `json:"candidatesPerPlant" yaml:"candidatesPerPlant"`
	GenerationPruned   int64          `json:"generationPruned" yaml:"generationPruned"`
	DominatedDropped   int64          `json:"dominatedDropped" yaml:"dominatedDropped"`
	NodesExplored      int64          `json:"nodesExplored" yaml:"nodesExplored"`
	NodesPruned        int64          `json:"nodesPruned" yaml:"nodesPruned"`
	IncumbentUpdates   int64          `json:"incumbentUpdates" yaml:"incumbentUpdates"`
	Workers            int            `json:"workers" yaml:"workers"`
	Elapsed            time.Duration  `json:"elapsed" yaml:"elapsed"`
}
