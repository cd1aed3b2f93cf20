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

// Package report aggregates per-instruction outcomes into a run summary
package report

// 📊 Status is the outcome of a single instruction
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// ⚠️ ErrorKind classifies an instruction failure
type ErrorKind string

const (
	// ErrorKindNotFound: target text absent from every paragraph and
	// table. Recoverable by the caller, never fatal to the pass.
	ErrorKindNotFound ErrorKind = "NotFound"
	// ErrorKindStructural: an index/edit invariant was violated (stale
	// fragment reference, missing payload). A defect, not retried.
	ErrorKindStructural ErrorKind = "StructuralError"
)

// 📋 ChangeResult is the immutable outcome of one instruction
type ChangeResult struct {
	ChangeID  string `json:"change_id" yaml:"change_id"`
	Operation string `json:"operation" yaml:"operation"`
	Status    Status `json:"status" yaml:"status"`

	// Paragraph is the body paragraph edited, -1 for failures and for
	// edits that landed inside a table
	Paragraph int `json:"paragraph" yaml:"paragraph"`

	// MultipleMatches flags that more than one occurrence existed and
	// the first by scan order was taken (advisory, not an error)
	MultipleMatches bool `json:"multiple_matches,omitempty" yaml:"multiple_matches,omitempty"`

	// InTable flags that the edit landed in a table cell
	InTable bool `json:"in_table,omitempty" yaml:"in_table,omitempty"`

	ErrorKind ErrorKind `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
}

// 📈 Summary is the aggregated result of one apply pass
type Summary struct {
	Status       string         `json:"status" yaml:"status"`
	TotalChanges int            `json:"total_changes" yaml:"total_changes"`
	Successful   int            `json:"successful" yaml:"successful"`
	Failed       int            `json:"failed" yaml:"failed"`
	Changes      []ChangeResult `json:"changes" yaml:"changes"`
}

// Finalize folds the ordered results into a summary. Pure aggregation:
// every change_id appears exactly once, in input order. Status is always
// COMPLETED because the applicator resolves every instruction to either
// SUCCESS or FAILURE.
func Finalize(results []ChangeResult) Summary {
	s := Summary{
		Status:       "COMPLETED",
		TotalChanges: len(results),
		Changes:      results,
	}
	for i := range results {
		switch results[i].Status {
		case StatusSuccess:
			s.Successful++
		default:
			s.Failed++
		}
	}
	return s
}
