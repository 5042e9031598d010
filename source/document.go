// SPDX-License-Identifier: MIT

package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/meshlytics/matrix"
	"github.com/katalvlaran/meshlytics/topology"
)

// Format names a document encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// DefaultWeight is used for links that omit a weight.
const DefaultWeight = 1.0

// LinkSpec is one link entry. A nil Weight means DefaultWeight.
type LinkSpec struct {
	From   string   `json:"from" yaml:"from" toml:"from"`
	To     string   `json:"to" yaml:"to" toml:"to"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty" toml:"weight,omitempty"`
}

// Document is the on-disk topology description.
type Document struct {
	Nodes       []string    `json:"nodes" yaml:"nodes" toml:"nodes"`
	Directed    bool        `json:"directed" yaml:"directed" toml:"directed"`
	Links       []LinkSpec  `json:"links,omitempty" yaml:"links,omitempty" toml:"links,omitempty"`
	Adjacency   [][]float64 `json:"adjacency,omitempty" yaml:"adjacency,omitempty" toml:"adjacency,omitempty"`
	Eigenvalues []float64   `json:"eigenvalues,omitempty" yaml:"eigenvalues,omitempty" toml:"eigenvalues,omitempty"`
}

// FormatFromPath picks the format from the file extension
// (.yaml/.yml, .toml, .json; case-insensitive).
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%q: %w", path, ErrUnknownFormat)
	}
}

// Decode parses data in the given format. Unknown fields are rejected.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&doc)
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}

	return &doc, nil
}

// Snapshot freezes the document.
//
// Links documents go through a topology.Builder (nodes sorted by id);
// adjacency documents keep the order of Nodes. A given spectrum is used
// as-is, otherwise it is computed with spectrum.
//
// Errors:
//   - ErrAmbiguousDocument, ErrInvalidDocument, and any topology error.
func (d *Document) Snapshot(spectrum topology.SpectrumOptions, opts ...topology.SnapshotOption) (*topology.Snapshot, error) {
	if len(d.Links) > 0 && len(d.Adjacency) > 0 {
		return nil, ErrAmbiguousDocument
	}
	given := len(d.Eigenvalues) > 0
	if given {
		spectrum.Skip = true
	}

	var (
		snap *topology.Snapshot
		err  error
	)
	if len(d.Adjacency) > 0 {
		snap, err = d.fromAdjacency(spectrum, opts)
	} else {
		snap, err = d.fromLinks(spectrum, opts)
	}
	if err != nil || !given {
		return snap, err
	}

	return topology.NewSnapshot(snap.Mapping(), snap.Adjacency(), d.Eigenvalues,
		topology.WithCapturedAt(snap.CapturedAt()))
}

func (d *Document) fromAdjacency(spectrum topology.SpectrumOptions, opts []topology.SnapshotOption) (*topology.Snapshot, error) {
	if len(d.Nodes) != len(d.Adjacency) {
		return nil, fmt.Errorf("%d nodes for %d adjacency rows: %w", len(d.Nodes), len(d.Adjacency), ErrInvalidDocument)
	}
	mapping, err := topology.NewIndexMapping(nodeIDs(d.Nodes))
	if err != nil {
		return nil, err
	}
	adj, err := matrix.NewDenseFromRows(d.Adjacency)
	if err != nil {
		return nil, fmt.Errorf("adjacency: %w: %w", ErrInvalidDocument, err)
	}

	return topology.FromAdjacency(mapping, adj, spectrum, opts...)
}

func (d *Document) fromLinks(spectrum topology.SpectrumOptions, opts []topology.SnapshotOption) (*topology.Snapshot, error) {
	var bopts []topology.BuilderOption
	if d.Directed {
		bopts = append(bopts, topology.WithDirected())
	}
	b := topology.NewBuilder(bopts...)
	declared := make(map[string]bool, len(d.Nodes))
	for _, id := range d.Nodes {
		if declared[id] {
			return nil, fmt.Errorf("%q: %w", id, topology.ErrDuplicateNode)
		}
		declared[id] = true
		if err := b.AddNode(topology.NodeID(id)); err != nil {
			return nil, err
		}
	}
	for k, l := range d.Links {
		if len(declared) > 0 && (!declared[l.From] || !declared[l.To]) {
			return nil, fmt.Errorf("link %d %q→%q: %w", k, l.From, l.To, topology.ErrUnknownNode)
		}
		w := DefaultWeight
		if l.Weight != nil {
			w = *l.Weight
		}
		if err := b.SetLink(topology.NodeID(l.From), topology.NodeID(l.To), w); err != nil {
			return nil, fmt.Errorf("link %d: %w", k, err)
		}
	}

	return b.Snapshot(spectrum, opts...)
}

// Load reads, decodes and freezes the document at path.
func Load(path string, spectrum topology.SpectrumOptions) (*topology.Snapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	snap, err := doc.Snapshot(spectrum)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}

	return snap, nil
}

func nodeIDs(in []string) []topology.NodeID {
	out := make([]topology.NodeID, len(in))
	for i, id := range in {
		out[i] = topology.NodeID(id)
	}

	return out
}
