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
	"fmt"
	"math"
)

// Validate checks the request against the optimizer's input contract.
// The first violation is returned as an INVALID_REQUEST error naming the field.
func (r *Request) Validate() error {
	if r == nil {
		return invalidRequestError("request", "cannot be nil")
	}
	if len(r.Plants) == 0 {
		return invalidRequestError("plants", "must not be empty")
	}
	if len(r.AvailableDrippers) == 0 {
		return invalidRequestError("available_drippers", "must not be empty")
	}

	plantIDs := make(map[string]struct{}, len(r.Plants))
	for i, p := range r.Plants {
		field := func(name string) string { return fmt.Sprintf("plants[%d].%s", i, name) }

		if p.PlantID == "" {
			return invalidRequestError(field("plant_id"), "must not be empty")
		}
		if _, dup := plantIDs[p.PlantID]; dup {
			return invalidRequestError(field("plant_id"), fmt.Sprintf("duplicates %q", p.PlantID))
		}
		plantIDs[p.PlantID] = struct{}{}

		if !finite(p.TargetVolumeLiters) || p.TargetVolumeLiters <= 0 {
			return invalidRequestError(field("target_volume_liters"), "must be a finite number greater than 0")
		}
		if !finite(p.TolerancePercent) || p.TolerancePercent < 0 {
			return invalidRequestError(field("tolerance_percent"), "must be a finite number of at least 0")
		}
		if p.MaxEmitterQuantity < 0 {
			return invalidRequestError(field("max_emitter_quantity"), "must be at least 0")
		}
	}

	dripperIDs := make(map[string]struct{}, len(r.AvailableDrippers))
	for i, d := range r.AvailableDrippers {
		field := func(name string) string { return fmt.Sprintf("available_drippers[%d].%s", i, name) }

		if d.DripperID == "" {
			return invalidRequestError(field("dripper_id"), "must not be empty")
		}
		if _, dup := dripperIDs[d.DripperID]; dup {
			return invalidRequestError(field("dripper_id"), fmt.Sprintf("duplicates %q", d.DripperID))
		}
		dripperIDs[d.DripperID] = struct{}{}

		if !finite(d.FlowRateLPH) || d.FlowRateLPH <= 0 {
			return invalidRequestError(field("flow_rate_lph"), "must be a finite number greater than 0")
		}
		if d.Count != nil && *d.Count < 0 {
			return invalidRequestError(field("count"), "must be at least 0 when set")
		}
	}

	if r.MaxIrrigationTimeSeconds != nil {
		if v := *r.MaxIrrigationTimeSeconds; !finite(v) || v <= 0 {
			return invalidRequestError("max_irrigation_time_seconds", "must be a finite number greater than 0 when set")
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
