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

// Package config loads the run configuration for an apply pass
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/walteh/redline/pkg/match"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete run configuration
type Config struct {
	// Instructions is the path to the change instruction file
	Instructions string `json:"instructions" yaml:"instructions" hcl:"instructions"`

	// Documents are glob patterns selecting the documents to edit
	Documents []string `json:"documents" yaml:"documents" hcl:"documents"`

	// Policies is the match policy fallback chain, in order. Empty means
	// the default chain: exact, then normalize_whitespace.
	Policies []string `json:"policies,omitempty" yaml:"policies,omitempty" hcl:"policies,optional"`

	// Annotate inserts an annotation paragraph after each successful edit
	Annotate bool   `json:"annotate,omitempty" yaml:"annotate,omitempty" hcl:"annotate,optional"`
	Author   string `json:"author,omitempty" yaml:"author,omitempty" hcl:"author,optional"`

	// Backup writes a .bak copy of each document before editing it
	Backup bool `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`

	// Parallel bounds how many documents are edited concurrently. Each
	// document's pass is still strictly sequential.
	Parallel int `json:"parallel,omitempty" yaml:"parallel,omitempty" hcl:"parallel,optional"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid and sets defaults
func (cfg *Config) Validate() error {
	if cfg.Instructions == "" {
		return errors.Errorf("instructions is required")
	}
	if len(cfg.Documents) == 0 {
		return errors.Errorf("documents is required")
	}
	for _, name := range cfg.Policies {
		if _, err := match.ParsePolicy(name); err != nil {
			return err
		}
	}
	if cfg.Annotate && cfg.Author == "" {
		cfg.Author = "redline"
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = 1
	}
	return nil
}

// MatchPolicies resolves the configured policy names. Validate has
// already rejected unknown names.
func (cfg *Config) MatchPolicies() []match.Policy {
	if len(cfg.Policies) == 0 {
		return match.DefaultPolicies()
	}
	policies := make([]match.Policy, 0, len(cfg.Policies))
	for _, name := range cfg.Policies {
		p, err := match.ParsePolicy(name)
		if err != nil {
			continue
		}
		policies = append(policies, p)
	}
	return policies
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s", cfg.Instructions, strings.Join(cfg.Documents, ", "))
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg Config
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &cfg, nil
}
