// SPDX-License-Identifier: MIT

// Package source turns topology documents on disk into snapshots.
//
// A document lists nodes and either weighted links or a full adjacency
// matrix, optionally with a precomputed spectrum:
//
//	nodes: [gw, relay, leaf]
//	directed: false
//	links:
//	  - {from: gw, to: relay, weight: 1}
//	  - {from: relay, to: leaf}
//
// YAML, TOML and JSON encodings are accepted; the file extension picks the
// decoder. Watch follows one document and reports reloads and removals.
package source
