// SPDX-License-Identifier: MIT

package centrality

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/katalvlaran/meshlytics/topology"
)

// Score is one entry of a result row.
type Score struct {
	Node  topology.NodeID `json:"node"`
	Value float64         `json:"value"`
}

// Result is an n×n score table keyed by NodeID on both levels.
// Node order is the snapshot's index order and is preserved by Nodes, Row
// and MarshalJSON. A Result is immutable once returned.
type Result struct {
	mapping *topology.IndexMapping
	scores  [][]float64
}

// newResult binds a square score table to mapping.
func newResult(mapping *topology.IndexMapping, scores [][]float64) (*Result, error) {
	n := mapping.Len()
	if len(scores) != n {
		return nil, fmt.Errorf("%d score rows for %d nodes: %w", len(scores), n, ErrDimension)
	}
	for i, row := range scores {
		if len(row) != n {
			return nil, fmt.Errorf("score row %d has %d entries for %d nodes: %w", i, len(row), n, ErrDimension)
		}
	}

	return &Result{mapping: mapping, scores: scores}, nil
}

// Len returns n.
func (r *Result) Len() int { return r.mapping.Len() }

// Nodes returns the node ids in table order.
func (r *Result) Nodes() []topology.NodeID { return r.mapping.IDs() }

// Score returns the score from→to.
func (r *Result) Score(from, to topology.NodeID) (float64, bool) {
	i, ok := r.mapping.Index(from)
	if !ok {
		return 0, false
	}
	j, ok := r.mapping.Index(to)
	if !ok {
		return 0, false
	}

	return r.scores[i][j], true
}

// Row returns the scores of from against every node, in table order.
func (r *Result) Row(from topology.NodeID) ([]Score, bool) {
	i, ok := r.mapping.Index(from)
	if !ok {
		return nil, false
	}
	out := make([]Score, len(r.scores[i]))
	for j, v := range r.scores[i] {
		id, _ := r.mapping.ID(j)
		out[j] = Score{Node: id, Value: v}
	}

	return out, true
}

// Table returns a copy of the raw n×n scores in table order.
func (r *Result) Table() [][]float64 {
	out := make([][]float64, len(r.scores))
	for i, row := range r.scores {
		out[i] = append([]float64(nil), row...)
	}

	return out
}

// Map returns the nested NodeID→NodeID→score mapping as fresh maps.
func (r *Result) Map() map[topology.NodeID]map[topology.NodeID]float64 {
	ids := r.mapping.IDs()
	out := make(map[topology.NodeID]map[topology.NodeID]float64, len(ids))
	for i, from := range ids {
		inner := make(map[topology.NodeID]float64, len(ids))
		for j, to := range ids {
			inner[to] = r.scores[i][j]
		}
		out[from] = inner
	}

	return out
}

// MarshalJSON emits {"from": {"to": score, ...}, ...} with both levels in
// table order.
func (r *Result) MarshalJSON() ([]byte, error) {
	ids := r.mapping.IDs()
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, from := range ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, from); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, to := range ids {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, to); err != nil {
				return nil, err
			}
			v, err := json.Marshal(r.scores[i][j])
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, id topology.NodeID) error {
	k, err := json.Marshal(string(id))
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')

	return nil
}
