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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	dserrors "github.com/NVIDIA/drip-optimizer/pkg/errors"
)

func validRequest() *Request {
	return &Request{
		Plants:            []PlantRequirement{plant("p1", 10, 10, 5), plant("p2", 20, 0, 0)},
		AvailableDrippers: []DripperType{dripper("a", 2, nil), dripper("b", 5, ptr.To(0))},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *Request)
		wantField string
	}{
		{name: "valid", mutate: func(*Request) {}},
		{name: "valid with cap", mutate: func(r *Request) { r.MaxIrrigationTimeSeconds = ptr.To(600.0) }},
		{name: "no plants", mutate: func(r *Request) { r.Plants = nil }, wantField: "plants"},
		{name: "no drippers", mutate: func(r *Request) { r.AvailableDrippers = nil }, wantField: "available_drippers"},
		{name: "empty plant id", mutate: func(r *Request) { r.Plants[1].PlantID = "" }, wantField: "plants[1].plant_id"},
		{name: "duplicate plant id", mutate: func(r *Request) { r.Plants[1].PlantID = "p1" }, wantField: "plants[1].plant_id"},
		{name: "zero target", mutate: func(r *Request) { r.Plants[0].TargetVolumeLiters = 0 }, wantField: "plants[0].target_volume_liters"},
		{name: "nan target", mutate: func(r *Request) { r.Plants[0].TargetVolumeLiters = math.NaN() }, wantField: "plants[0].target_volume_liters"},
		{name: "negative tolerance", mutate: func(r *Request) { r.Plants[0].TolerancePercent = -1 }, wantField: "plants[0].tolerance_percent"},
		{name: "infinite tolerance", mutate: func(r *Request) { r.Plants[0].TolerancePercent = math.Inf(1) }, wantField: "plants[0].tolerance_percent"},
		{name: "negative emitters", mutate: func(r *Request) { r.Plants[0].MaxEmitterQuantity = -1 }, wantField: "plants[0].max_emitter_quantity"},
		{name: "empty dripper id", mutate: func(r *Request) { r.AvailableDrippers[0].DripperID = "" }, wantField: "available_drippers[0].dripper_id"},
		{name: "duplicate dripper id", mutate: func(r *Request) { r.AvailableDrippers[1].DripperID = "a" }, wantField: "available_drippers[1].dripper_id"},
		{name: "zero flow", mutate: func(r *Request) { r.AvailableDrippers[1].FlowRateLPH = 0 }, wantField: "available_drippers[1].flow_rate_lph"},
		{name: "negative count", mutate: func(r *Request) { r.AvailableDrippers[1].Count = ptr.To(-1) }, wantField: "available_drippers[1].count"},
		{name: "zero cap", mutate: func(r *Request) { r.MaxIrrigationTimeSeconds = ptr.To(0.0) }, wantField: "max_irrigation_time_seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var se *dserrors.StructuredError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, dserrors.ErrCodeInvalidRequest, se.Code)
			assert.Equal(t, tt.wantField, se.Context["field"])
		})
	}
}

func TestValidate_NilRequest(t *testing.T) {
	var req *Request
	assert.True(t, dserrors.HasCode(req.Validate(), dserrors.ErrCodeInvalidRequest))
}

func TestVolumeBand(t *testing.T) {
	lo, hi := plant("p", 10, 10, 1).VolumeBand()
	assert.InDelta(t, 9.0, lo, 1e-12)
	assert.InDelta(t, 11.0, hi, 1e-12)

	lo, hi = plant("p", 10, 150, 1).VolumeBand()
	assert.Zero(t, lo)
	assert.InDelta(t, 25.0, hi, 1e-12)
}
