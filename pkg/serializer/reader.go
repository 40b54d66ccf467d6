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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// StdinPath is the source name that reads from standard input.
const StdinPath = "-"

// FormatFromPath determines the serialization format from a file extension.
// .yaml and .yml map to YAML, everything else to JSON. Matching is
// case-insensitive and URL query strings are ignored.
func FormatFromPath(filePath string) Format {
	p, _, _ := strings.Cut(filePath, "?")
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FormatFromContentType maps a Content-Type header to a decodable format.
// An empty header means JSON. ok is false for unsupported media types.
func FormatFromContentType(contentType string) (Format, bool) {
	if strings.TrimSpace(contentType) == "" {
		return FormatJSON, true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return FormatJSON, true
	case mediaType == "application/yaml", mediaType == "application/x-yaml",
		mediaType == "text/yaml", mediaType == "text/x-yaml", strings.HasSuffix(mediaType, "+yaml"):
		return FormatYAML, true
	default:
		return "", false
	}
}

// Reader decodes JSON or YAML documents from an io.Reader.
// Table format is write-only.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader creates a Reader for input. If input implements io.Closer it is
// closed by Reader.Close.
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	if format == FormatTable {
		return nil, errors.New("table format does not support deserialization")
	}

	r := &Reader{
		format: format,
		input:  input,
	}
	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}
	return r, nil
}

// Deserialize decodes one document into v, which must be a pointer.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return errors.New("reader is nil")
	}
	if r.input == nil {
		return errors.New("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		if err := yaml.NewDecoder(r.input).Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("failed to decode YAML: empty document")
			}
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases the input if it is closeable. Safe to call more than once.
func (r *Reader) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Decode is a convenience wrapper decoding data in format into a new T.
func Decode[T any](format Format, data []byte) (*T, error) {
	r, err := NewReader(format, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var v T
	if err := r.Deserialize(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FromFile reads and decodes a local file into T, picking the format from
// the extension.
func FromFile[T any](filePath string) (*T, error) {
	return FromSource[T](context.Background(), filePath)
}

// FromSource reads and decodes src into T. src is a local file path,
// an http(s) URL or "-" for stdin. The format is derived from the extension;
// stdin is decoded as YAML, which also accepts JSON.
func FromSource[T any](ctx context.Context, src string) (*T, error) {
	data, format, err := readSource(ctx, src)
	if err != nil {
		return nil, err
	}
	v, err := Decode[T](format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", src, err)
	}
	return v, nil
}

func readSource(ctx context.Context, src string) ([]byte, Format, error) {
	switch {
	case src == "":
		return nil, "", errors.New("input source is empty")
	case src == StdinPath:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, FormatYAML, nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		data, err := NewHttpReader().ReadWithContext(ctx, src)
		if err != nil {
			return nil, "", err
		}
		return data, FormatFromPath(src), nil
	default:
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open file: %w", err)
		}
		return data, FormatFromPath(src), nil
	}
}
