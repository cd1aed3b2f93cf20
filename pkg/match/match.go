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

// Package match locates a target text inside a paragraph's logical text
// under a configurable matching policy.
package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// ErrNotFound reports that the target text does not occur in the logical
// text under any of the requested policies. Callers are expected to move
// on to the next paragraph.
var ErrNotFound = errors.New("target text not found")

// 🎛️ Policy selects how target text is compared against logical text
type Policy int

const (
	// PolicyExact compares byte-for-byte
	PolicyExact Policy = iota
	// PolicyNormalizeWhitespace collapses runs of whitespace on both
	// sides before comparing, then maps the hit back to original offsets
	PolicyNormalizeWhitespace
	// PolicyTrim ignores leading/trailing whitespace in the target only
	PolicyTrim
)

// String returns a string representation of Policy
func (p Policy) String() string {
	switch p {
	case PolicyExact:
		return "exact"
	case PolicyNormalizeWhitespace:
		return "normalize_whitespace"
	case PolicyTrim:
		return "trim"
	default:
		return "unknown"
	}
}

// ParsePolicy resolves a policy name from configuration
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "exact":
		return PolicyExact, nil
	case "normalize_whitespace":
		return PolicyNormalizeWhitespace, nil
	case "trim":
		return PolicyTrim, nil
	default:
		return 0, errors.Errorf("unknown match policy: %q", name)
	}
}

// DefaultPolicies is the contractual fallback order: exact first, then
// whitespace-normalized. Silently reordering this changes behavior.
func DefaultPolicies() []Policy {
	return []Policy{PolicyExact, PolicyNormalizeWhitespace}
}

// 🎯 Match is a hit in logical-text coordinates. Multiple is advisory:
// when more than one occurrence exists, the first by scan order wins and
// the flag lets the caller surface a warning instead of a silent pick.
type Match struct {
	Start    int
	End      int
	Policy   Policy
	Multiple bool
}

// Find scans the logical text for the target under each policy in order
// and returns the first policy's hit. With no policies it uses
// DefaultPolicies. Returns ErrNotFound when no policy matches.
func Find(text, target string, policies ...Policy) (Match, error) {
	if target == "" {
		return Match{}, errors.Errorf("target text is empty")
	}
	if len(policies) == 0 {
		policies = DefaultPolicies()
	}

	for _, policy := range policies {
		m, ok := findOne(text, target, policy)
		if ok {
			return m, nil
		}
	}
	return Match{}, errors.Errorf("finding %q: %w", target, ErrNotFound)
}

func findOne(text, target string, policy Policy) (Match, bool) {
	switch policy {
	case PolicyExact:
		return findExact(text, target, policy)
	case PolicyTrim:
		return findExact(text, strings.TrimSpace(target), policy)
	case PolicyNormalizeWhitespace:
		return findNormalized(text, target)
	default:
		return Match{}, false
	}
}

func findExact(text, target string, policy Policy) (Match, bool) {
	if target == "" {
		return Match{}, false
	}
	idx := strings.Index(text, target)
	if idx < 0 {
		return Match{}, false
	}
	return Match{
		Start:    idx,
		End:      idx + len(target),
		Policy:   policy,
		Multiple: strings.Count(text, target) > 1,
	}, true
}

func findNormalized(text, target string) (Match, bool) {
	norm := normalizeSpace(text)
	ntarget := normalizeSpaceString(target)
	if ntarget == "" {
		return Match{}, false
	}
	idx := strings.Index(norm.text, ntarget)
	if idx < 0 {
		return Match{}, false
	}
	return Match{
		Start:    norm.starts[idx],
		End:      norm.ends[idx+len(ntarget)-1],
		Policy:   PolicyNormalizeWhitespace,
		Multiple: strings.Count(norm.text, ntarget) > 1,
	}, true
}

// normalized carries the collapsed text plus, per normalized byte, the
// original byte range it stands for. A collapsed space stands for the
// whole whitespace run it replaced.
type normalized struct {
	text   string
	starts []int // original offset of the first byte behind normalized byte i
	ends   []int // original offset one past the last byte behind normalized byte i
}

func normalizeSpace(s string) normalized {
	var b strings.Builder
	n := normalized{}

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			runStart := i
			for i < len(s) {
				r2, sz2 := utf8.DecodeRuneInString(s[i:])
				if !unicode.IsSpace(r2) {
					break
				}
				i += sz2
			}
			b.WriteByte(' ')
			n.starts = append(n.starts, runStart)
			n.ends = append(n.ends, i)
			continue
		}
		for k := 0; k < size; k++ {
			b.WriteByte(s[i+k])
			n.starts = append(n.starts, i+k)
			n.ends = append(n.ends, i+k+1)
		}
		i += size
	}

	n.text = b.String()
	return n
}

func normalizeSpaceString(s string) string {
	return normalizeSpace(s).text
}
