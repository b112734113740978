package rdbstore

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/coin"
	"github.com/timpalpant/go-rl/montecarlo"
	"github.com/timpalpant/go-rl/policy"
	"github.com/timpalpant/go-rl/sampling"
)

func TestStore(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "rl-test-")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	params := DefaultParams(tmpDir)
	defer params.Close()

	store, err := New[coin.State, coin.Action](params)
	if err != nil {
		t.Fatal(err)
	}

	k := rl.MakeKey(rl.StateActionKeys, coin.S1, coin.A0)
	if _, ok := store.Get(k); ok {
		t.Errorf("expected %v to be missing", k)
	}

	store.Put(k, rl.Value{Value: 0.5, Step: 2})
	store.Put(k, rl.Value{Value: 0.25, Step: 3})
	if store.Len() != 1 {
		t.Errorf("expected 1 value, got %d", store.Len())
	}
	if v, ok := store.Get(k); !ok || v != (rl.Value{Value: 0.25, Step: 3}) {
		t.Errorf("expected {0.25 3}, got %+v (%v)", v, ok)
	}

	store.Close()
	reopened, err := New[coin.State, coin.Action](params)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if reopened.Len() != 1 {
		t.Errorf("expected 1 value after reopening, got %d", reopened.Len())
	}
}

func TestMonteCarlo_MatchesMapStore(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "rl-test-")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	params := DefaultParams(tmpDir)
	defer params.Close()

	store, err := New[coin.State, coin.Action](params)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Destroy()

	run := func(store rl.Store[coin.State, coin.Action]) *rl.ValueFunction[coin.State, coin.Action] {
		vf, err := rl.NewValueFunction[coin.State, coin.Action](rl.DefaultParams(coin.Discount), store)
		if err != nil {
			t.Fatal(err)
		}

		pi, err := policy.NewEpsilonGreedy[coin.State, coin.Action](0.1, vf)
		if err != nil {
			t.Fatal(err)
		}

		control := montecarlo.NewOnPolicy[coin.State, coin.Action](100)
		rng := sampling.New(5)
		env := coin.New()
		for i := 0; i < 100; i++ {
			if _, err := control.Episode(rng, env, vf, pi, pi); err != nil {
				t.Fatal(err)
			}
		}

		return vf
	}

	expected := run(rl.NewMapStore[coin.State, coin.Action]())
	got := run(store)
	expected.Range(func(k rl.Key[coin.State, coin.Action], v rl.Value) bool {
		if x, ok := got.Lookup(k); !ok || x != v {
			t.Errorf("%v: expected %+v, got %+v", k, v, x)
		}

		return true
	})
}
