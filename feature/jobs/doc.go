// Package jobs runs the comparison jobs of db-compare.
//
// A Router maps each job to its table discovery rule and cursor flavor and
// drives the per-table loop:
//
//   - counters: row counts of every table
//   - updated_ats, created_ats: the table lists, then the newest rows per table
//   - by_id: id windows from max(id) down to zero, optionally sample-capped
//   - by_id_excluding_replica_updated_ats: as by_id, ignoring ids the
//     secondary updated after the cutoff
//   - updated_ats_until: keyset pages of updated_at from the cutoff backwards
//   - sequences: last values of every primary sequence
//
// Each table is written as one "#start#"/"#end#" block. A table failure is
// logged and collected; the loop moves on to the next table.
package jobs
