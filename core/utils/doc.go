// Package utils provides common utility functions for db-compare.
// It includes helpers for converting loosely typed driver values (ids, timestamps,
// byte slices) into the stable forms used for keys and serialization.
package utils
