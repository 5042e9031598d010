// SPDX-License-Identifier: MIT

package centrality

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ParamDepth is the Parameters key holding the diffusion depth T.
const ParamDepth = "T"

// DefaultDepth is used when Parameters has no ParamDepth entry.
const DefaultDepth = 5

// MaxDepth bounds T so that it always fits an int and a run stays bounded.
const MaxDepth = 1 << 16

// Parameters maps option names to numeric values.
// A nil Parameters is valid and yields every default.
type Parameters map[string]float64

// Depth resolves the diffusion depth T.
//
// Errors:
//   - ErrConfiguration when T is present but NaN, ±Inf, fractional,
//     below 1 or above MaxDepth.
func (p Parameters) Depth() (int, error) {
	v, ok := p[ParamDepth]
	if !ok {
		return DefaultDepth, nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v < 1 || v > MaxDepth {
		return 0, fmt.Errorf("%s=%v must be an integer in [1, %d]: %w", ParamDepth, v, MaxDepth, ErrConfiguration)
	}

	return int(v), nil
}

// Validate checks every option: all values must be finite and T must
// resolve through Depth.
//
// Errors:
//   - ErrConfiguration naming the first offending key in sorted order.
func (p Parameters) Validate() error {
	for _, k := range p.Keys() {
		if v := p[k]; math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s=%v must be finite: %w", k, v, ErrConfiguration)
		}
	}
	_, err := p.Depth()

	return err
}

// Clone returns an independent copy (nil stays nil).
func (p Parameters) Clone() Parameters {
	if p == nil {
		return nil
	}
	out := make(Parameters, len(p))
	for k, v := range p {
		out[k] = v
	}

	return out
}

// Keys returns the option names in sorted order.
func (p Parameters) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// String renders "k=v" pairs in key order, e.g. "T=3".
func (p Parameters) String() string {
	parts := make([]string, 0, len(p))
	for _, k := range p.Keys() {
		parts = append(parts, k+"="+strconv.FormatFloat(p[k], 'g', -1, 64))
	}

	return strings.Join(parts, ",")
}

// ParseParameter parses one "name=value" option as given on a command line.
//
// Errors:
//   - ErrConfiguration on a missing '=', an empty name, or a value that is
//     not a finite number.
func ParseParameter(s string) (string, float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", 0, fmt.Errorf("parameter %q: want name=value: %w", s, ErrConfiguration)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("parameter %q: %v: %w", s, err, ErrConfiguration)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", 0, fmt.Errorf("parameter %q: value must be finite: %w", s, ErrConfiguration)
	}

	return name, v, nil
}
