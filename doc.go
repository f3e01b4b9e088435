// Package mrio decomposes multi-regional input-output (MRIO) footprints.
//
// Given a stressor intensity table S (stressors × producers) and a Leontief
// inverse L (producers × producers), the footprint of one stressor for one
// target producer j is split into three parts:
//
//	direct            S[k, j], the on-site intensity of j itself
//	domestic indirect supply-chain contributions from j's own region
//	foreign indirect  supply-chain contributions from every other region
//
// A producer is a (region, sector) pair; contributions are r = S[k,:] ⊙ L[:,j].
// Two definitions of the domestic indirect part are supported:
// minus_direct (default, total == Σr) and exclude_diagonal
// (total == Σr + direct − r[j]).
//
// Packages:
//
//	matrix/    row-major Dense storage, finite-value policy, vector kernels
//	producer/  (region, sector) keys and ordered producer indexes
//	table/     immutable S and L tables, reindexing, catalog
//	decomp/    alignment, contribution & partition engine, policies
//	ingest/    CSV parsing, local and gs:// sources, fingerprints
//	snapshot/  BadgerDB cache of parsed tables keyed by fingerprint
//	dataset/   lazy, shared, invalidatable loaded dataset; file watching
//	report/    breakdown rows, kg/percent formatting, terminal panels
//	config/    YAML + MRIO_* environment configuration
//	telemetry/ OpenTelemetry trace and metric exporters
//	server/    gin HTTP API
//	cmd/mrio/  command line front end
//
// Quick example:
//
//	res, err := decomp.Decompose(s, l, decomp.Query{
//		Stressor: "CO2 - combustion - air",
//		Target:   producer.K("US", "Steel"),
//	})
//	// res.Direct, res.DomesticIndirect, res.ForeignIndirect, res.Total
//
//	go install github.com/katalvlaran/mrio/cmd/mrio@latest
package mrio
