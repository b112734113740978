package ldbstore

import (
	"github.com/golang/glog"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/internal/codec"
)

// Store is an rl.Store backed by a LevelDB database.
//
// rl.Store has no error returns, so I/O errors cause a panic.
type Store[S, A comparable] struct {
	path string
	db   *leveldb.DB
	n    int

	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
}

// New opens (or creates) the LevelDB database at the given path.
// Any values already in the database are kept.
func New[S, A comparable](path string, opts *opt.Options) (*Store[S, A], error) {
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, err
	}

	s := &Store[S, A]{path: path, db: db}
	iter := db.NewIterator(nil, s.rOpts)
	for iter.Next() {
		s.n++
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		db.Close()
		return nil, err
	}

	glog.V(1).Infof("Opened %s with %d values", path, s.n)
	return s, nil
}

// Path returns the location of the database.
func (s *Store[S, A]) Path() string {
	return s.path
}

// Close implements io.Closer.
func (s *Store[S, A]) Close() error {
	return s.db.Close()
}

// Get implements rl.Store.
func (s *Store[S, A]) Get(k rl.Key[S, A]) (rl.Value, bool) {
	buf, err := s.db.Get(codec.EncodeKey(k), s.rOpts)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return rl.Value{}, false
		}

		panic(err)
	}

	v, err := codec.DecodeValue(buf)
	if err != nil {
		panic(err)
	}

	return v, true
}

// Put implements rl.Store.
func (s *Store[S, A]) Put(k rl.Key[S, A], v rl.Value) {
	key := codec.EncodeKey(k)
	ok, err := s.db.Has(key, s.rOpts)
	if err != nil {
		panic(err)
	}

	if err := s.db.Put(key, codec.EncodeValue(v), s.wOpts); err != nil {
		panic(err)
	}

	if !ok {
		s.n++
	}
}

// Range implements rl.Store. Keys are visited in the order of their
// encoded bytes.
func (s *Store[S, A]) Range(fn func(rl.Key[S, A], rl.Value) bool) {
	iter := s.db.NewIterator(nil, s.rOpts)
	defer iter.Release()
	for iter.Next() {
		k, err := codec.DecodeKey[S, A](iter.Key())
		if err != nil {
			panic(err)
		}

		v, err := codec.DecodeValue(iter.Value())
		if err != nil {
			panic(err)
		}

		if !fn(k, v) {
			return
		}
	}

	if err := iter.Error(); err != nil {
		panic(err)
	}
}

// Len implements rl.Store.
func (s *Store[S, A]) Len() int {
	return s.n
}
