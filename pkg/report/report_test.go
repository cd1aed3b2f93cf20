package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalize(t *testing.T) {
	tests := []struct {
		name           string
		results        []ChangeResult
		wantSuccessful int
		wantFailed     int
	}{
		{
			name:    "empty_pass",
			results: nil,
		},
		{
			name: "mixed_outcomes",
			results: []ChangeResult{
				{ChangeID: "CHG-001", Status: StatusSuccess},
				{ChangeID: "CHG-002", Status: StatusFailure, ErrorKind: ErrorKindNotFound},
				{ChangeID: "CHG-003", Status: StatusSuccess},
			},
			wantSuccessful: 2,
			wantFailed:     1,
		},
		{
			name: "all_failed",
			results: []ChangeResult{
				{ChangeID: "CHG-001", Status: StatusFailure, ErrorKind: ErrorKindStructural},
			},
			wantFailed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Finalize(tt.results)

			// The pass itself always completes, failures are per-change
			assert.Equal(t, "COMPLETED", s.Status)
			assert.Equal(t, len(tt.results), s.TotalChanges)
			assert.Equal(t, tt.wantSuccessful, s.Successful)
			assert.Equal(t, tt.wantFailed, s.Failed)
		})
	}
}

func TestFinalize_PreservesOrder(t *testing.T) {
	results := []ChangeResult{
		{ChangeID: "CHG-003", Status: StatusFailure},
		{ChangeID: "CHG-001", Status: StatusSuccess},
		{ChangeID: "CHG-002", Status: StatusSuccess},
	}

	s := Finalize(results)
	require.Len(t, s.Changes, 3)
	for i := range results {
		assert.Equal(t, results[i].ChangeID, s.Changes[i].ChangeID)
	}
}
