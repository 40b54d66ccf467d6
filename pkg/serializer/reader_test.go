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

package serializer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"req.json", FormatJSON},
		{"req.yaml", FormatYAML},
		{"REQ.YML", FormatYAML},
		{"https://example.com/garden.yaml?rev=2", FormatYAML},
		{"noext", FormatJSON},
		{"notes.txt", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestFormatFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        Format
		ok          bool
	}{
		{"", FormatJSON, true},
		{"application/json", FormatJSON, true},
		{"application/json; charset=utf-8", FormatJSON, true},
		{"application/vnd.nvidia.dripopt.v1+json", FormatJSON, true},
		{"application/yaml", FormatYAML, true},
		{"application/x-yaml", FormatYAML, true},
		{"text/yaml", FormatYAML, true},
		{"text/plain", "", false},
		{";;;", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			got, ok := FormatFromContentType(tt.contentType)
			if ok != tt.ok || got != tt.want {
				t.Errorf("FormatFromContentType(%q) = %s,%v want %s,%v", tt.contentType, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNewReader_RejectsFormats(t *testing.T) {
	if _, err := NewReader(FormatTable, strings.NewReader("")); err == nil {
		t.Error("expected table format to be rejected")
	}
	if _, err := NewReader(Format("xml"), strings.NewReader("")); err == nil {
		t.Error("expected unknown format to be rejected")
	}
}

func TestReader_Deserialize(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"json", FormatJSON, `{"kind":"Request","drippers":[{"dripper_id":"small","flow_rate_lph":2,"count":3}]}`},
		{"yaml", FormatYAML, "kind: Request\ndrippers:\n  - dripper_id: small\n    flow_rate_lph: 2\n    count: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.format, strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}
			defer r.Close()

			var got doc
			if err := r.Deserialize(&got); err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}
			if got.Kind != "Request" || len(got.Drippers) != 1 {
				t.Fatalf("unexpected doc %#v", got)
			}
			if got.Drippers[0].Count == nil || *got.Drippers[0].Count != 3 {
				t.Errorf("expected count 3, got %v", got.Drippers[0].Count)
			}
		})
	}
}

func TestReader_Deserialize_Errors(t *testing.T) {
	var nilReader *Reader
	if err := nilReader.Deserialize(&doc{}); err == nil {
		t.Error("expected error for nil reader")
	}
	if err := nilReader.Close(); err != nil {
		t.Errorf("Close on nil reader should be a no-op, got %v", err)
	}

	r, _ := NewReader(FormatJSON, strings.NewReader("{not json"))
	if err := r.Deserialize(&doc{}); err == nil {
		t.Error("expected JSON decode error")
	}

	r, _ = NewReader(FormatYAML, strings.NewReader(""))
	if err := r.Deserialize(&doc{}); err == nil || !strings.Contains(err.Error(), "empty document") {
		t.Errorf("expected empty YAML document error, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	got, err := Decode[doc](FormatYAML, []byte(`{"kind": "Request"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Kind != "Request" {
		t.Errorf("expected kind Request, got %q", got.Kind)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "req.json")
	yamlPath := filepath.Join(dir, "req.yml")
	if err := os.WriteFile(jsonPath, []byte(`{"kind":"Request"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlPath, []byte("kind: Request\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{jsonPath, yamlPath} {
		got, err := FromFile[doc](p)
		if err != nil {
			t.Fatalf("FromFile(%s) failed: %v", p, err)
		}
		if got.Kind != "Request" {
			t.Errorf("FromFile(%s): expected kind Request, got %q", p, got.Kind)
		}
	}

	if _, err := FromFile[doc](filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := FromFile[doc](""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestFromSource_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/garden.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("kind: Request\n"))
	}))
	defer srv.Close()

	got, err := FromSource[doc](context.Background(), srv.URL+"/garden.yaml")
	if err != nil {
		t.Fatalf("FromSource failed: %v", err)
	}
	if got.Kind != "Request" {
		t.Errorf("expected kind Request, got %q", got.Kind)
	}

	if _, err := FromSource[doc](context.Background(), srv.URL+"/missing.yaml"); err == nil {
		t.Error("expected error for 404")
	}
}
