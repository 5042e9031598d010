// SPDX-License-Identifier: MIT

package topology

// Components partitions the snapshot into weakly connected components by
// breadth-first search, treating every non-zero entry as an undirected
// link. Components are listed in order of their smallest index and each
// lists its nodes in BFS order from that node.
//
// A singleton component is an isolated node; diffusion centrality rejects
// such snapshots, so this is the first thing to check when it does.
//
// Complexity: O(n²).
func (s *Snapshot) Components() [][]NodeID {
	n := s.Len()
	adj := s.adjacency.Rows2D()
	visited := make([]bool, n)
	var out [][]NodeID

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue := []int{start}
		var comp []NodeID
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			comp = append(comp, s.mapping.ids[u])
			for v := 0; v < n; v++ {
				if visited[v] || (adj[u][v] == 0 && adj[v][u] == 0) {
					continue
				}
				visited[v] = true
				queue = append(queue, v)
			}
		}
		out = append(out, comp)
	}

	return out
}

// Isolated returns the nodes with no incoming or outgoing link.
func (s *Snapshot) Isolated() []NodeID {
	var out []NodeID
	for _, comp := range s.Components() {
		if len(comp) != 1 {
			continue
		}
		i, _ := s.mapping.Index(comp[0])
		if v, _ := s.adjacency.At(i, i); v == 0 {
			out = append(out, comp[0])
		}
	}

	return out
}
