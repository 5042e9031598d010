// SPDX-License-Identifier: MIT

package source

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/meshlytics/topology"
)

// FromBuilder captures the builder's nodes and links as a links document.
// Undirected builders emit each mirrored pair once, From < To.
func FromBuilder(b *topology.Builder) *Document {
	doc := &Document{Directed: b.Directed()}
	for _, l := range b.Links() {
		if !b.Directed() && l.From > l.To {
			continue
		}
		w := l.Weight
		doc.Links = append(doc.Links, LinkSpec{From: string(l.From), To: string(l.To), Weight: &w})
	}
	for _, id := range b.Nodes() {
		doc.Nodes = append(doc.Nodes, string(id))
	}

	return doc
}

// Encode renders doc in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	var (
		buf bytes.Buffer
		err error
	)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(&buf).Encode(doc)
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("source: encode %s: %w", format, err)
	}

	return buf.Bytes(), nil
}
