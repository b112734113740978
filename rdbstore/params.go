package rdbstore

import (
	rocksdb "github.com/tecbot/gorocksdb"
)

// Params configure the database backing a Store.
type Params struct {
	Path         string
	Options      *rocksdb.Options
	ReadOptions  *rocksdb.ReadOptions
	WriteOptions *rocksdb.WriteOptions
	// ScanOptions are used for full iterations (counting on open, Range),
	// which should not evict point lookups from the block cache.
	ScanOptions *rocksdb.ReadOptions
}

// DefaultParams creates the database at path if it does not exist.
// The options must be released with Close once every Store using them
// is closed.
func DefaultParams(path string) Params {
	opts := rocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(true)

	scan := rocksdb.NewDefaultReadOptions()
	scan.SetFillCache(false)

	return Params{
		Path:         path,
		Options:      opts,
		ReadOptions:  rocksdb.NewDefaultReadOptions(),
		WriteOptions: rocksdb.NewDefaultWriteOptions(),
		ScanOptions:  scan,
	}
}

func (p Params) Close() {
	p.Options.Destroy()
	p.ReadOptions.Destroy()
	p.WriteOptions.Destroy()
	p.ScanOptions.Destroy()
}
