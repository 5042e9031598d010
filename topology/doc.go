// SPDX-License-Identifier: MIT

// Package topology captures mesh topology as immutable, point-in-time
// snapshots.
//
// A Snapshot bundles three things that never change after construction:
//
//   - an IndexMapping, the bijection between dense indices [0,n) and NodeIDs;
//   - an n×n weighted adjacency matrix (entry (i,j) is the weight i→j);
//   - the eigenvalues of that matrix (possibly empty).
//
// Any topology change produces a new, independent Snapshot. This is what lets
// the centrality engine run without holding a lock on the graph.
//
// Builder is the mutable side: a goroutine-safe link table that device and
// routing collaborators update as nodes join or leave, and that freezes into
// a Snapshot on demand.
package topology
