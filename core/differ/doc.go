// Package differ renders differences between two serialized rows or value lists.
//
// Two differs are provided. Char marks changed word tokens inline and is used for
// matched rows, where most of the text is identical. Line drops equal lines and
// is used for table lists and "id : value" lists. Both are built on the
// go-difflib SequenceMatcher and both are deterministic.
package differ
