// Package rdbstore implements an rl.Store that keeps values in a
// RocksDB database, rather than in memory.
//
// It is substantially slower than rl.MapStore but can hold tables
// that do not fit in memory. Building it requires cgo and the RocksDB
// C library.
package rdbstore
