package codec

import (
	"bytes"
	"math"
	"testing"

	"github.com/timpalpant/go-rl"
)

type cell struct {
	Row, Col int
}

func TestKey(t *testing.T) {
	k := rl.MakeKey(rl.StateActionKeys, cell{2, 3}, "up")
	buf := EncodeKey(k)
	if !bytes.Equal(buf, EncodeKey(rl.MakeKey(rl.StateActionKeys, cell{2, 3}, "up"))) {
		t.Error("expected equal keys to have equal encodings")
	}
	if bytes.Equal(buf, EncodeKey(rl.MakeKey(rl.StateActionKeys, cell{3, 2}, "up"))) {
		t.Error("expected distinct keys to have distinct encodings")
	}

	got, err := DecodeKey[cell, string](buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != k {
		t.Errorf("expected %v, got %v", k, got)
	}

	zero := rl.MakeKey(rl.StateKeys, cell{}, "ignored")
	got, err = DecodeKey[cell, string](EncodeKey(zero))
	if err != nil {
		t.Fatal(err)
	}
	if got != zero {
		t.Errorf("expected %v, got %v", zero, got)
	}
}

func TestValue(t *testing.T) {
	for _, v := range []rl.Value{
		{Value: 0, Step: 1},
		{Value: -1.0 / 3, Step: 12345},
		{Value: math.Inf(-1), Step: 2},
	} {
		buf := EncodeValue(v)
		if len(buf) != ValueSize {
			t.Errorf("expected %d bytes, got %d", ValueSize, len(buf))
		}

		got, err := DecodeValue(buf)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Errorf("expected %+v, got %+v", v, got)
		}
	}

	if _, err := DecodeValue([]byte{1, 2, 3}); err == nil {
		t.Error("expected error decoding short buffer")
	}
}
