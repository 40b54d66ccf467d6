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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	dserrors "github.com/NVIDIA/drip-optimizer/pkg/errors"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		name string
		code dserrors.ErrorCode
		want int
	}{
		{"invalid request", dserrors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{"unauthorized", dserrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{"not found", dserrors.ErrCodeNotFound, http.StatusNotFound},
		{"method not allowed", dserrors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{"no plant solution", dserrors.ErrCodeNoPlantSolution, http.StatusUnprocessableEntity},
		{"global infeasible", dserrors.ErrCodeGlobalInfeasible, http.StatusUnprocessableEntity},
		{"rate limit", dserrors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{"unavailable", dserrors.ErrCodeUnavailable, http.StatusServiceUnavailable},
		{"canceled", dserrors.ErrCodeCanceled, http.StatusServiceUnavailable},
		{"timeout", dserrors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{"search timeout", dserrors.ErrCodeSearchTimeout, http.StatusGatewayTimeout},
		{"internal", dserrors.ErrCodeInternal, http.StatusInternalServerError},
		{"unknown defaults to internal", dserrors.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusFromCode(tt.code); got != tt.want {
				t.Fatalf("HTTPStatusFromCode(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestRetryableFromCode(t *testing.T) {
	tests := []struct {
		name string
		code dserrors.ErrorCode
		want bool
	}{
		{"invalid request", dserrors.ErrCodeInvalidRequest, false},
		{"no plant solution", dserrors.ErrCodeNoPlantSolution, false},
		{"global infeasible", dserrors.ErrCodeGlobalInfeasible, false},
		{"method not allowed", dserrors.ErrCodeMethodNotAllowed, false},
		{"timeout", dserrors.ErrCodeTimeout, true},
		{"search timeout", dserrors.ErrCodeSearchTimeout, true},
		{"canceled", dserrors.ErrCodeCanceled, true},
		{"unavailable", dserrors.ErrCodeUnavailable, true},
		{"rate limit", dserrors.ErrCodeRateLimitExceeded, true},
		{"internal", dserrors.ErrCodeInternal, true},
		{"unknown defaults false", dserrors.ErrorCode("SOMETHING_ELSE"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryableFromCode(tt.code); got != tt.want {
				t.Fatalf("retryableFromCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestMergeDetails(t *testing.T) {
	t.Run("both empty returns nil", func(t *testing.T) {
		if got := mergeDetails(nil, nil); got != nil {
			t.Fatalf("expected nil, got %#v", got)
		}
		if got := mergeDetails(map[string]any{}, map[string]any{}); got != nil {
			t.Fatalf("expected nil, got %#v", got)
		}
	})

	t.Run("merges and second overwrites", func(t *testing.T) {
		a := map[string]any{"a": 1, "shared": "old"}
		b := map[string]any{"b": 2, "shared": "new"}

		got := mergeDetails(a, b)
		if got["a"].(int) != 1 || got["b"].(int) != 2 {
			t.Fatalf("expected a=1 b=2, got %#v", got)
		}
		if got["shared"].(string) != "new" {
			t.Fatalf("expected shared to be overwritten to 'new', got %#v", got["shared"])
		}
		if a["shared"].(string) != "old" {
			t.Fatal("input map must not be modified")
		}
	})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp
}

func TestWriteError_WritesErrorResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-123"))
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusBadRequest, dserrors.ErrCodeInvalidRequest, "bad request", false, map[string]any{"k": "v"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	resp := decodeError(t, w)
	if resp.Code != string(dserrors.ErrCodeInvalidRequest) {
		t.Fatalf("expected code %q, got %q", dserrors.ErrCodeInvalidRequest, resp.Code)
	}
	if resp.Message != "bad request" {
		t.Fatalf("expected message %q, got %q", "bad request", resp.Message)
	}
	if resp.RequestID != "req-123" {
		t.Fatalf("expected requestId %q, got %q", "req-123", resp.RequestID)
	}
	if resp.Retryable {
		t.Fatalf("expected retryable=false, got true")
	}
	if resp.Details == nil || resp.Details["k"].(string) != "v" {
		t.Fatalf("expected details to include k=v, got %#v", resp.Details)
	}
}

func TestWriteError_GeneratesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusNotFound, dserrors.ErrCodeNotFound, "missing", false, nil)

	if resp := decodeError(t, w); resp.RequestID == "" {
		t.Fatal("expected generated requestId")
	}
}

func TestWriteErrorFromErr(t *testing.T) {
	t.Run("structured error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		w := httptest.NewRecorder()

		err := dserrors.NewWithContext(dserrors.ErrCodeGlobalInfeasible, "no joint assignment",
			map[string]any{"plants": 3})
		WriteErrorFromErr(w, req, err, "fallback", map[string]any{"extra": true})

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
		}
		resp := decodeError(t, w)
		if resp.Code != string(dserrors.ErrCodeGlobalInfeasible) {
			t.Fatalf("unexpected code %q", resp.Code)
		}
		if resp.Message != "no joint assignment" {
			t.Fatalf("unexpected message %q", resp.Message)
		}
		if resp.Details["plants"].(float64) != 3 || resp.Details["extra"] != true {
			t.Fatalf("unexpected details %#v", resp.Details)
		}
		if resp.Retryable {
			t.Fatal("expected non-retryable")
		}
	})

	t.Run("wrapped structured error with cause", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		w := httptest.NewRecorder()

		inner := dserrors.Wrap(dserrors.ErrCodeSearchTimeout, "out of time", context.DeadlineExceeded)
		WriteErrorFromErr(w, req, errors.Join(inner), "fallback", nil)

		if w.Code != http.StatusGatewayTimeout {
			t.Fatalf("expected status %d, got %d", http.StatusGatewayTimeout, w.Code)
		}
		resp := decodeError(t, w)
		if !resp.Retryable {
			t.Fatal("expected retryable")
		}
		if resp.Details["error"] != context.DeadlineExceeded.Error() {
			t.Fatalf("expected cause in details, got %#v", resp.Details)
		}
	})

	t.Run("plain error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		w := httptest.NewRecorder()

		WriteErrorFromErr(w, req, errors.New("boom"), "something failed", nil)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
		resp := decodeError(t, w)
		if resp.Code != string(dserrors.ErrCodeInternal) || resp.Message != "something failed" {
			t.Fatalf("unexpected response %#v", resp)
		}
	})
}
