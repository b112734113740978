// Package codec implements the on-disk encoding of value function keys
// and values shared by the database-backed stores.
package codec

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"math"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-rl"
)

// ValueSize is the length of an encoded rl.Value.
const ValueSize = 16

// EncodeKey serializes k with gob.
//
// Each key is encoded by a fresh Encoder so that equal keys always
// yield equal bytes. S and A must be gob-encodable and may not contain
// maps or interfaces.
func EncodeKey[S, A comparable](k rl.Key[S, A]) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(k); err != nil {
		panic(err)
	}

	return buf.Bytes()
}

// DecodeKey is the inverse of EncodeKey.
func DecodeKey[S, A comparable](buf []byte) (rl.Key[S, A], error) {
	var k rl.Key[S, A]
	err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&k)
	return k, err
}

// EncodeValue packs v as its little-endian float64 bits followed by
// its step count.
func EncodeValue(v rl.Value) []byte {
	buf := make([]byte, ValueSize)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v.Value))
	binary.LittleEndian.PutUint64(buf[8:], uint64(v.Step))
	return buf
}

// DecodeValue is the inverse of EncodeValue.
func DecodeValue(buf []byte) (rl.Value, error) {
	if len(buf) != ValueSize {
		return rl.Value{}, errors.Errorf("error decoding value: %d bytes", len(buf))
	}

	return rl.Value{
		Value: math.Float64frombits(binary.LittleEndian.Uint64(buf)),
		Step:  int(binary.LittleEndian.Uint64(buf[8:])),
	}, nil
}
