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

import "math"

// BuildResponse turns a winning solution into the response aggregates.
// plants and sol.Picks are index aligned. It performs no I/O.
func BuildResponse(plants []PlantRequirement, drippers []DripperType, sol *Solution) *Response {
	resp := &Response{
		Plants:             make([]PlantResult, 0, len(plants)),
		DrippersUsedDetail: make([]DripperAllocation, 0),
	}

	// summary keeps first-seen dripper order
	summaryIdx := make(map[string]int)

	var totalFlow, totalVolume float64

	for i, plant := range plants {
		c := sol.Picks[i]
		volume := roundTo(c.TotalFlow*sol.Duration, 3)

		assigned := c.Drippers(drippers)
		for _, a := range assigned {
			if at, ok := summaryIdx[a.DripperID]; ok {
				resp.DrippersUsedDetail[at].Count += a.Count
			} else {
				summaryIdx[a.DripperID] = len(resp.DrippersUsedDetail)
				resp.DrippersUsedDetail = append(resp.DrippersUsedDetail, a)
			}
			resp.TotalDrippersUsed += a.Count
		}

		resp.Plants = append(resp.Plants, PlantResult{
			PlantID:            plant.PlantID,
			ActualVolumeLiters: volume,
			AssignedDrippers:   assigned,
		})

		totalFlow += c.TotalFlow
		totalVolume += volume
	}

	resp.TotalFlowLPH = roundTo(totalFlow, 3)
	resp.TotalBaseVolumeLiters = roundTo(totalVolume, 3)
	resp.BaseIrrigationTimeSeconds = roundTo(sol.Duration*SecondsPerHour, 2)

	return resp
}

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
