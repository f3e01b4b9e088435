// Package dataset owns the lifetime of the loaded MRIO tables.
//
// A Cache hands out immutable *Snapshot values. The first Get loads the
// sources (single-flight: concurrent callers share one load); later calls
// return the same pointer until Invalidate, or a change seen by Watch,
// drops it. A reload installs a new Snapshot and never touches one that has
// already been served, so a caller can keep using a Snapshot for as long as
// it likes while the cache moves on.
//
// With a snapshot store configured, a load first looks the source
// fingerprint up in the store and falls back to parsing the CSV files.
//
// Loads are instrumented with Prometheus metrics (mrio_dataset_*) and
// OpenTelemetry spans; queries through Snapshot.Decompose get a span each.
package dataset
