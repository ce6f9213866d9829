// Package codec reads and rewrites Mount & Blade Warband profiles.dat
// buffers: a 12-byte header with a duplicated little-endian record count,
// followed by back-to-back character records.
//
// # Record walking
//
// Each record's span is derived from its own name-length byte, so record
// boundaries are found by walking forward from the header; there is no
// random access by index. The walk is deliberately forgiving: a header
// declaring more records than the buffer holds stops early with a
// Truncated flag, and disagreeing count copies resolve to the larger
// value with a CountMismatch flag. Parsing only fails on a buffer too
// short to hold the header at all; malformed record data never errors.
//
// # Mutation
//
// Delete and Generate are pure with respect to their inputs: they return
// fresh buffers and rewrite both header count copies in lock-step, so a
// roster touched only through this package can never end up with the two
// copies disagreeing.
package codec
