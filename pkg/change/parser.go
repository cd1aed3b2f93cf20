package change

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for instruction file parsers
type Parser interface {
	// 📝 Parse parses an instruction list from bytes
	Parse(ctx context.Context, data []byte) ([]Instruction, error)

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

// MarshalYAML implements yaml.Marshaler (yaml.v3 does not consult
// encoding.TextMarshaler)
func (op Operation) MarshalYAML() (interface{}, error) {
	return op.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (op *Operation) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return errors.Errorf("decoding operation: %w", err)
	}
	parsed, err := ParseOperation(name)
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}

// instructionFile is the on-disk envelope for an instruction list
type instructionFile struct {
	Changes []Instruction `json:"changes" yaml:"changes"`
}

// 🎯 Load loads an ordered instruction list from a file
func Load(ctx context.Context, path string) ([]Instruction, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading instructions")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading instruction file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	instructions, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing instructions: %w", err)
	}

	if err := ValidateAll(instructions); err != nil {
		return nil, errors.Errorf("validating instructions: %w", err)
	}

	return instructions, nil
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) ([]Instruction, error) {
	var file instructionFile
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return file.Changes, nil
}

// 🔧 JSONParser implements the Parser interface for JSON files
type JSONParser struct{}

func init() {
	Register(&JSONParser{})
}

func (p *JSONParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".json")
}

func (p *JSONParser) Parse(ctx context.Context, data []byte) ([]Instruction, error) {
	var file instructionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return file.Changes, nil
}
