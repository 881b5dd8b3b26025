// Package summary reads a finished diff file back and counts, per table
// block, the updated, deleted and created rows along with the columns that
// changed.
package summary
