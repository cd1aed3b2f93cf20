// Copyright 2025 walteh LLC
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

// Package docfile is the document provider: it loads and saves the
// fragment-based document model from disk. The engine itself never does
// I/O; loading happens entirely before an apply pass and saving entirely
// after it.
package docfile

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/redline/pkg/document"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Codec encodes and decodes a document representation
type Codec interface {
	// 📝 Decode parses a document from bytes
	Decode(data []byte) (*document.Document, error)

	// 📝 Encode serializes a document to bytes
	Encode(doc *document.Document) ([]byte, error)

	// 🔍 CanHandle checks if this codec can handle the given file
	CanHandle(filename string) bool
}

var (
	// 🗺️ codecs is a list of available codecs
	codecs []Codec
)

// 📝 Register registers a codec
func Register(c Codec) {
	codecs = append(codecs, c)
}

// 🎯 GetCodec returns a codec that can handle the given file
func GetCodec(filename string) Codec {
	for _, c := range codecs {
		if c.CanHandle(filename) {
			return c
		}
	}
	return nil
}

// 🎯 Load reads a document from a file and assigns stable fragment ids
func Load(ctx context.Context, path string) (*document.Document, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading document")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading document file: %w", err)
	}

	c := GetCodec(path)
	if c == nil {
		return nil, errors.Errorf("no codec found for file: %s", path)
	}

	doc, err := c.Decode(data)
	if err != nil {
		return nil, errors.Errorf("decoding document: %w", err)
	}

	doc.AssignIDs()
	if err := doc.Validate(); err != nil {
		return nil, errors.Errorf("validating document: %w", err)
	}
	return doc, nil
}

// 💾 Save writes a document atomically: encode, write to a temp file,
// rename over the target
func Save(ctx context.Context, path string, doc *document.Document) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("saving document")

	c := GetCodec(path)
	if c == nil {
		return errors.Errorf("no codec found for file: %s", path)
	}

	data, err := c.Encode(doc)
	if err != nil {
		return errors.Errorf("encoding document: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Backup copies the document file to <path>.bak before an apply pass.
// Missing files are not an error: there is nothing to back up.
func Backup(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Errorf("reading document for backup: %w", err)
	}
	if err := os.WriteFile(path+".bak", data, 0644); err != nil {
		return errors.Errorf("writing backup: %w", err)
	}
	return nil
}

// Restore puts the backup content back and removes the backup
func Restore(ctx context.Context, path string) error {
	backupPath := path + ".bak"
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return errors.Errorf("reading backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}
	if err := os.Remove(backupPath); err != nil {
		return errors.Errorf("removing backup: %w", err)
	}
	return nil
}

// 🔧 JSONCodec implements the Codec interface for JSON files
type JSONCodec struct{}

func init() {
	Register(&JSONCodec{})
}

func (c *JSONCodec) CanHandle(filename string) bool {
	return strings.HasSuffix(filename, ".json")
}

func (c *JSONCodec) Decode(data []byte) (*document.Document, error) {
	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &doc, nil
}

func (c *JSONCodec) Encode(doc *document.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// 🔧 YAMLCodec implements the Codec interface for YAML files
type YAMLCodec struct{}

func init() {
	Register(&YAMLCodec{})
}

func (c *YAMLCodec) CanHandle(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (c *YAMLCodec) Decode(data []byte) (*document.Document, error) {
	var doc document.Document
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &doc, nil
}

func (c *YAMLCodec) Encode(doc *document.Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Errorf("marshaling YAML: %w", err)
	}
	return data, nil
}
