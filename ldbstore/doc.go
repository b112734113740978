// Package ldbstore implements an rl.Store that keeps values on disk
// in a LevelDB database, rather than in memory.
//
// It is substantially slower than rl.MapStore but can hold tables
// that do not fit in memory.
package ldbstore
