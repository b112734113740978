//go:build !rocksdb

package main

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/go-rl"
)

func openRocksDB[S, A comparable](path string) (rl.Store[S, A], func() error, error) {
	return nil, nil, errors.Wrap(rl.ErrUnsupportedOperation, "rl was built without rocksdb support (-tags rocksdb)")
}
