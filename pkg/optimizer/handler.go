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
	"io"
	"log/slog"
	"net/http"

	"github.com/NVIDIA/drip-optimizer/pkg/defaults"
	dserrors "github.com/NVIDIA/drip-optimizer/pkg/errors"
	"github.com/NVIDIA/drip-optimizer/pkg/serializer"
	"github.com/NVIDIA/drip-optimizer/pkg/server"
)

// ParseRequest decodes a request document. The format follows contentType;
// unrecognized media types are decoded as JSON.
func ParseRequest(body io.Reader, contentType string) (*Request, error) {
	if body == nil {
		return nil, errors.New("request body cannot be nil")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("request body is empty")
	}

	format, ok := serializer.FormatFromContentType(contentType)
	if !ok {
		format = serializer.FormatJSON
	}

	req, err := serializer.Decode[Request](format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s body: %w", format, err)
	}
	return req, nil
}

// HandleOptimize serves POST /v1/optimization/per-plant. The body is a Request
// in JSON or YAML; the reply is a Response or a structured error.
func (o *Optimizer) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, dserrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodPost},
			})
		return
	}
	defer func() {
		if r.Body != nil {
			r.Body.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(r.Context(), defaults.OptimizeHandlerTimeout)
	defer cancel()

	req, err := ParseRequest(r.Body, r.Header.Get("Content-Type"))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			server.WriteError(w, r, http.StatusRequestEntityTooLarge, dserrors.ErrCodeInvalidRequest,
				"Request body too large", false, map[string]any{
					"limit": tooLarge.Limit,
				})
			return
		}
		server.WriteError(w, r, http.StatusBadRequest, dserrors.ErrCodeInvalidRequest,
			"Invalid optimization request", false, map[string]any{
				"error": err.Error(),
			})
		return
	}

	slog.Debug("optimization request",
		"plants", len(req.Plants),
		"drippers", len(req.AvailableDrippers),
		"capped", req.MaxIrrigationTimeSeconds != nil,
	)

	resp, err := o.Optimize(ctx, req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to optimize irrigation", nil)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	serializer.RespondJSON(w, http.StatusOK, resp)
}
