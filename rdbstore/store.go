package rdbstore

import (
	"github.com/golang/glog"
	rocksdb "github.com/tecbot/gorocksdb"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/internal/codec"
)

// Store is an rl.Store backed by a RocksDB database.
//
// rl.Store has no error returns, so I/O errors cause a panic.
type Store[S, A comparable] struct {
	params Params
	db     *rocksdb.DB
	n      int
}

// New opens the RocksDB database described by params.
// Any values already in the database are kept.
func New[S, A comparable](params Params) (*Store[S, A], error) {
	db, err := rocksdb.OpenDb(params.Options, params.Path)
	if err != nil {
		return nil, err
	}

	s := &Store[S, A]{params: params, db: db}
	it := db.NewIterator(params.ScanOptions)
	for it.SeekToFirst(); it.Valid(); it.Next() {
		s.n++
	}
	err = it.Err()
	it.Close()
	if err != nil {
		db.Close()
		return nil, err
	}

	glog.V(1).Infof("Opened %s with %d values", params.Path, s.n)
	return s, nil
}

// Close implements io.Closer. It does not release the Params.
func (s *Store[S, A]) Close() error {
	s.db.Close()
	return nil
}

// Destroy closes the store and deletes the database.
func (s *Store[S, A]) Destroy() error {
	s.db.Close()
	return rocksdb.DestroyDb(s.params.Path, s.params.Options)
}

// Get implements rl.Store.
func (s *Store[S, A]) Get(k rl.Key[S, A]) (rl.Value, bool) {
	result, err := s.db.Get(s.params.ReadOptions, codec.EncodeKey(k))
	if err != nil {
		panic(err)
	}
	defer result.Free()

	if !result.Exists() {
		return rl.Value{}, false
	}

	v, err := codec.DecodeValue(result.Data())
	if err != nil {
		panic(err)
	}

	return v, true
}

// Put implements rl.Store.
func (s *Store[S, A]) Put(k rl.Key[S, A], v rl.Value) {
	key := codec.EncodeKey(k)
	result, err := s.db.Get(s.params.ReadOptions, key)
	if err != nil {
		panic(err)
	}
	exists := result.Exists()
	result.Free()

	if err := s.db.Put(s.params.WriteOptions, key, codec.EncodeValue(v)); err != nil {
		panic(err)
	}

	if !exists {
		s.n++
	}
}

// Range implements rl.Store. Keys are visited in the order of their
// encoded bytes.
func (s *Store[S, A]) Range(fn func(rl.Key[S, A], rl.Value) bool) {
	it := s.db.NewIterator(s.params.ScanOptions)
	defer it.Close()

	for it.SeekToFirst(); it.Valid(); it.Next() {
		key := it.Key()
		value := it.Value()
		k, err := codec.DecodeKey[S, A](key.Data())
		key.Free()
		if err != nil {
			panic(err)
		}

		v, err := codec.DecodeValue(value.Data())
		value.Free()
		if err != nil {
			panic(err)
		}

		if !fn(k, v) {
			return
		}
	}

	if err := it.Err(); err != nil {
		panic(err)
	}
}

// Len implements rl.Store.
func (s *Store[S, A]) Len() int {
	return s.n
}
