// Package report holds the flattened records accumulated during a collection
// run and shapes them into rectangular tables for export.
//
// A Report is created empty at run start, mutated concurrently by collector
// workers through mutex-guarded append methods, and read exactly once after
// the dispatcher joins. Node records are deduplicated by hostname across the
// whole run: the first successful insert wins, later sightings of the same
// hostname from other endpoints are silently ignored.
//
// Tables map sheet names to column-ordered rows. Records with heterogeneous
// columns are null-filled so every row is rectangular.
package report
