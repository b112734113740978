package main

import (
	"fmt"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/ldbstore"
)

func noClose() error { return nil }

// openStore returns the Store for the given trial and a function that
// releases it.
func openStore[S, A comparable](f *Flags, name string, trial int) (rl.Store[S, A], func() error, error) {
	path := filepath.Join(f.StorePath, fmt.Sprintf("%s-%d", name, trial))
	switch f.Store {
	case "leveldb":
		store, err := ldbstore.New[S, A](path, &opt.Options{})
		if err != nil {
			return nil, nil, err
		}

		return store, store.Close, nil
	case "rocksdb":
		return openRocksDB[S, A](path)
	}

	return rl.NewMapStore[S, A](), noClose, nil
}

// newValueFunction creates a table for the given trial in the selected store.
func newValueFunction[S, A comparable](f *Flags, name string, trial int, km rl.KeyMaker, discount float64) (*rl.ValueFunction[S, A], func() error, error) {
	stepSize, err := f.StepSize()
	if err != nil {
		return nil, nil, err
	}

	store, closer, err := openStore[S, A](f, name, trial)
	if err != nil {
		return nil, nil, err
	}

	vf, err := rl.NewValueFunction[S, A](rl.Params{
		KeyMaker: km,
		Discount: discount,
		StepSize: stepSize,
	}, store)
	if err != nil {
		closer()
		return nil, nil, err
	}

	return vf, closer, nil
}
