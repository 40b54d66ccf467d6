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

// Package serializer reads and writes JSON, YAML and table documents.
//
// Writing:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer w.Close()
//	if err := w.Serialize(ctx, report); err != nil {
//	    return err
//	}
//
// Reading from a file, URL or stdin:
//
//	req, err := serializer.FromSource[optimizer.Request](ctx, "https://example.com/garden.yaml")
//
// HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, resp)
//
// RespondJSON buffers the encoded body before writing headers so a failed
// encode never produces a partial response. Table output flattens nested
// values into dotted keys named after their json tags.
package serializer
