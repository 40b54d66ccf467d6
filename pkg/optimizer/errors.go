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
	"time"

	dserrors "github.com/NVIDIA/drip-optimizer/pkg/errors"
)

func noPlantSolutionError(plantID string) error {
	return dserrors.NewWithContext(dserrors.ErrCodeNoPlantSolution,
		fmt.Sprintf("no feasible dripper combination for plant %q", plantID),
		map[string]any{
			"plant_id": plantID,
		})
}

func globalInfeasibleError(plants int, explored int64) error {
	return dserrors.NewWithContext(dserrors.ErrCodeGlobalInfeasible,
		"no joint assignment satisfies the shared irrigation time and dripper availability",
		map[string]any{
			"plants":         plants,
			"nodes_explored": explored,
		})
}

func invalidRequestError(field, reason string) error {
	return dserrors.NewWithContext(dserrors.ErrCodeInvalidRequest,
		fmt.Sprintf("invalid request: %s %s", field, reason),
		map[string]any{
			"field": field,
		})
}

// abortedError maps a context error raised during the search to a typed failure.
// A deadline becomes SEARCH_TIMEOUT, an explicit cancel becomes CANCELED.
func abortedError(err error, budget time.Duration, explored int64) error {
	ctx := map[string]any{
		"nodes_explored": explored,
	}
	if budget > 0 {
		ctx["budget"] = budget.String()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return dserrors.WrapWithContext(dserrors.ErrCodeSearchTimeout,
			"optimization exceeded its time budget before completing the search", err, ctx)
	}
	return dserrors.WrapWithContext(dserrors.ErrCodeCanceled, "optimization canceled", err, ctx)
}

// IsNoPlantSolution reports whether err means a single plant cannot be satisfied.
func IsNoPlantSolution(err error) bool {
	return dserrors.HasCode(err, dserrors.ErrCodeNoPlantSolution)
}

// IsGlobalInfeasible reports whether err means no joint assignment exists.
func IsGlobalInfeasible(err error) bool {
	return dserrors.HasCode(err, dserrors.ErrCodeGlobalInfeasible)
}

// IsSearchTimeout reports whether err means the search was inconclusive.
func IsSearchTimeout(err error) bool {
	return dserrors.HasCode(err, dserrors.ErrCodeSearchTimeout)
}
