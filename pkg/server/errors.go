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

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	dserrors "github.com/NVIDIA/drip-optimizer/pkg/errors"
	"github.com/NVIDIA/drip-optimizer/pkg/serializer"
)

// ErrorResponse is the JSON body written for every failed API request.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes a structured error response.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code dserrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr writes err as a structured error response. A StructuredError
// determines status, code, retryability and details; any other error is reported
// as INTERNAL with fallbackMessage.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, extraDetails map[string]any) {
	var se *dserrors.StructuredError
	if errors.As(err, &se) {
		code := se.Code
		details := mergeDetails(se.Context, extraDetails)
		if se.Cause != nil {
			details = mergeDetails(details, map[string]any{"error": se.Cause.Error()})
		}
		WriteError(w, r, HTTPStatusFromCode(code), code, se.Message, retryableFromCode(code), details)
		return
	}

	details := extraDetails
	if err != nil {
		details = mergeDetails(details, map[string]any{"error": err.Error()})
	}
	WriteError(w, r, http.StatusInternalServerError, dserrors.ErrCodeInternal, fallbackMessage, true, details)
}

// HTTPStatusFromCode maps an error code to its HTTP status.
func HTTPStatusFromCode(code dserrors.ErrorCode) int {
	switch code {
	case dserrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case dserrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case dserrors.ErrCodeNotFound:
		return http.StatusNotFound
	case dserrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case dserrors.ErrCodeNoPlantSolution, dserrors.ErrCodeGlobalInfeasible:
		return http.StatusUnprocessableEntity
	case dserrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case dserrors.ErrCodeUnavailable, dserrors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	case dserrors.ErrCodeTimeout, dserrors.ErrCodeSearchTimeout:
		return http.StatusGatewayTimeout
	case dserrors.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code dserrors.ErrorCode) bool {
	switch code {
	case dserrors.ErrCodeTimeout,
		dserrors.ErrCodeSearchTimeout,
		dserrors.ErrCodeCanceled,
		dserrors.ErrCodeUnavailable,
		dserrors.ErrCodeRateLimitExceeded,
		dserrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails returns a new map with the entries of a then b. Nil when both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
