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

// Package change defines the structured change instructions the engine
// consumes, and the parsers that materialize them from files.
package change

import (
	"gitlab.com/tozd/go/errors"
)

// 🔧 Operation is the kind of edit an instruction requests
type Operation int

const (
	OpUnknown Operation = iota
	OpReplace
	OpInsertBefore
	OpInsertAfter
	OpDelete
)

// String returns the wire name of the operation
func (op Operation) String() string {
	switch op {
	case OpReplace:
		return "REPLACE"
	case OpInsertBefore:
		return "INSERT_BEFORE"
	case OpInsertAfter:
		return "INSERT_AFTER"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// ParseOperation resolves an operation from its wire name
func ParseOperation(name string) (Operation, error) {
	switch name {
	case "REPLACE":
		return OpReplace, nil
	case "INSERT_BEFORE":
		return OpInsertBefore, nil
	case "INSERT_AFTER":
		return OpInsertAfter, nil
	case "DELETE":
		return OpDelete, nil
	default:
		return OpUnknown, errors.Errorf("unknown operation: %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler
func (op Operation) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (op *Operation) UnmarshalText(data []byte) error {
	parsed, err := ParseOperation(string(data))
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}

// RequiresPayload reports whether the operation needs payload.new_text
func (op Operation) RequiresPayload() bool {
	switch op {
	case OpReplace, OpInsertBefore, OpInsertAfter:
		return true
	default:
		return false
	}
}

// 🎯 Target names the text an instruction operates on. Paragraph, when
// set, restricts the search to that body paragraph. That is the
// disambiguation hook for targets that occur more than once in a document.
type Target struct {
	Text      string `json:"text" yaml:"text"`
	Paragraph *int   `json:"paragraph,omitempty" yaml:"paragraph,omitempty"`
}

// 📦 Payload carries the replacement or inserted text
type Payload struct {
	NewText string `json:"new_text" yaml:"new_text"`
}

// 📋 Instruction is one structured change request. Immutable once issued;
// the engine consumes it read-only.
type Instruction struct {
	ChangeID    string    `json:"change_id" yaml:"change_id"`
	Operation   Operation `json:"operation" yaml:"operation"`
	Target      Target    `json:"target" yaml:"target"`
	Payload     Payload   `json:"payload,omitempty" yaml:"payload,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate checks the fields the engine relies on
func (in *Instruction) Validate() error {
	if in.ChangeID == "" {
		return errors.Errorf("change_id is required")
	}
	if in.Operation == OpUnknown {
		return errors.Errorf("%s: operation is required", in.ChangeID)
	}
	if in.Target.Text == "" {
		return errors.Errorf("%s: target.text is required", in.ChangeID)
	}
	if in.Operation.RequiresPayload() && in.Payload.NewText == "" {
		return errors.Errorf("%s: payload.new_text is required for %s", in.ChangeID, in.Operation)
	}
	return nil
}

// ValidateAll validates every instruction and checks change_id uniqueness
func ValidateAll(instructions []Instruction) error {
	seen := make(map[string]bool, len(instructions))
	for i := range instructions {
		if err := instructions[i].Validate(); err != nil {
			return errors.Errorf("instruction %d: %w", i, err)
		}
		if seen[instructions[i].ChangeID] {
			return errors.Errorf("duplicate change_id: %s", instructions[i].ChangeID)
		}
		seen[instructions[i].ChangeID] = true
	}
	return nil
}
