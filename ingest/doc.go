// Package ingest turns CSV exports of an MRIO system into validated
// table.StressorTable and table.LeontiefInverse values.
//
// File layout:
//
//   - S: two header rows (region labels, then sector labels); the first cell
//     of each header row is the index label and is ignored. Each data row is
//     a stressor name followed by one value per producer column.
//   - L: the same two header rows with two leading index cells. Each data
//     row is region, sector, then one value per producer column.
//   - An optional index-name row (leading cells set, value cells empty)
//     directly after the headers is skipped, as written by dataframe exports.
//
// Structural checks run at load time, not at query time: L must be square
// with identical row and column indexes, and S is reindexed onto L's
// producer order (extra S producers dropped, missing ones rejected).
//
// Sources are resolved by URI: plain paths and file:// read the local
// filesystem; gs://bucket/object reads Google Cloud Storage when a client
// has been supplied with WithGCS.
package ingest
