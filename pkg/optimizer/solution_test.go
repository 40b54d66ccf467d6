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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildResponse(t *testing.T) {
	drippers := []DripperType{dripper("a", 2, nil), dripper("b", 5, nil)}
	plants := []PlantRequirement{plant("p1", 8, 10, 4), plant("p2", 12, 10, 4)}

	c1 := &Candidate{Allocation: []Usage{{Dripper: 0, Count: 1}, {Dripper: 1, Count: 1}}, TotalFlow: 7, TotalEmitters: 2}
	c2 := &Candidate{Allocation: []Usage{{Dripper: 1, Count: 2}}, TotalFlow: 10, TotalEmitters: 2}

	resp := BuildResponse(plants, drippers, &Solution{
		Picks:         []*Candidate{c1, c2},
		Ranks:         []int{0, 0},
		Duration:      1.2345678,
		TotalEmitters: 4,
	})

	assert.Equal(t, 4, resp.TotalDrippersUsed)
	assert.Equal(t, "p1", resp.Plants[0].PlantID)
	assert.InDelta(t, 8.642, resp.Plants[0].ActualVolumeLiters, 1e-9)
	assert.InDelta(t, 12.346, resp.Plants[1].ActualVolumeLiters, 1e-9)
	assert.InDelta(t, 20.988, resp.TotalBaseVolumeLiters, 1e-9)
	assert.Equal(t, 17.0, resp.TotalFlowLPH)
	assert.InDelta(t, 4444.44, resp.BaseIrrigationTimeSeconds, 1e-9)
	assert.Equal(t, []DripperAllocation{
		{DripperID: "a", FlowRateLPH: 2, Count: 1},
		{DripperID: "b", FlowRateLPH: 5, Count: 3},
	}, resp.DrippersUsedDetail)
}

func TestBuildResponse_SummaryFirstSeenOrder(t *testing.T) {
	drippers := []DripperType{dripper("a", 2, nil), dripper("b", 5, nil)}
	plants := []PlantRequirement{plant("p1", 10, 0, 1), plant("p2", 4, 0, 1)}

	resp := BuildResponse(plants, drippers, &Solution{
		Picks: []*Candidate{
			{Allocation: []Usage{{Dripper: 1, Count: 1}}, TotalFlow: 5, TotalEmitters: 1},
			{Allocation: []Usage{{Dripper: 0, Count: 1}}, TotalFlow: 2, TotalEmitters: 1},
		},
		Duration: 2,
	})

	assert.Equal(t, []DripperAllocation{
		{DripperID: "b", FlowRateLPH: 5, Count: 1},
		{DripperID: "a", FlowRateLPH: 2, Count: 1},
	}, resp.DrippersUsedDetail)
	assert.Equal(t, 10.0, resp.Plants[0].ActualVolumeLiters)
	assert.Equal(t, 4.0, resp.Plants[1].ActualVolumeLiters)
	assert.Equal(t, 7200.0, resp.BaseIrrigationTimeSeconds)
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		in       float64
		decimals int
		want     float64
	}{
		{0.125, 2, 0.13},
		{-0.125, 2, -0.13},
		{1.23449, 3, 1.234},
		{4444.444, 2, 4444.44},
		{7, 3, 7},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, roundTo(tt.in, tt.decimals), 1e-12, "roundTo(%v, %d)", tt.in, tt.decimals)
	}
}
