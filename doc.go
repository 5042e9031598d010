// Package meshlytics computes network-topology analytics for mesh networks.
//
// Given a snapshot of the mesh graph, it scores how effectively every node
// diffuses information to every other node (diffusion centrality) and keeps
// the single current result behind a mutex for concurrent readers.
//
// Under the hood, everything is organized under these subpackages:
//
//	matrix/     dense matrices, products, row sums, eigenvalues
//	topology/   node ids, index mapping, immutable snapshots, link builder
//	centrality/ diffusion centrality engine and its result table
//	analytics/  current-result slot and refresh/invalidate service
//	source/     YAML/TOML/JSON topology documents and file watching
//	metrics/    Prometheus collectors
//	config/     viper-backed runtime configuration
//	api/        HTTP surface over the current result
//	cmd/meshlytics CLI: compute, spectrum, serve, generate
//
// Quick example:
//
//	b := topology.NewBuilder()
//	_ = b.SetLink("gw", "relay", 1)
//	_ = b.SetLink("relay", "leaf", 1)
//	_ = b.SetLink("leaf", "gw", 1)
//	snap, _ := b.Snapshot(topology.DefaultSpectrumOptions())
//	res, _ := centrality.Compute(snap, centrality.Parameters{"T": 3})
//	score, _ := res.Score("gw", "leaf")
//
// Install:
//
//	go install github.com/katalvlaran/meshlytics/cmd/meshlytics@latest
package meshlytics
