//go:build rocksdb

package main

import (
	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/rdbstore"
)

func openRocksDB[S, A comparable](path string) (rl.Store[S, A], func() error, error) {
	params := rdbstore.DefaultParams(path)
	store, err := rdbstore.New[S, A](params)
	if err != nil {
		params.Close()
		return nil, nil, err
	}

	return store, func() error {
		err := store.Close()
		params.Close()
		return err
	}, nil
}
