package policy

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/coin"
	"github.com/timpalpant/go-rl/maxbias"
)

func newTable(t testing.TB, km rl.KeyMaker) *rl.ValueFunction[coin.State, coin.Action] {
	params := rl.DefaultParams(coin.Discount)
	params.KeyMaker = km
	vf, err := rl.NewTable[coin.State, coin.Action](params)
	if err != nil {
		t.Fatal(err)
	}

	return vf
}

func TestRandom(t *testing.T) {
	env := coin.New()
	pi := Random[coin.State, coin.Action]{}

	p, err := pi.Probability(env, coin.S0, coin.A1)
	if err != nil {
		t.Fatal(err)
	}

	if p != 0.5 {
		t.Errorf("expected %v, got %v", 0.5, p)
	}

	if logP, _ := pi.LogProbability(env, coin.S0, coin.A1); math.Abs(logP+math.Log(2)) > 1e-12 {
		t.Errorf("expected %v, got %v", -math.Log(2), logP)
	}

	if z, _ := pi.Normalisation(env, coin.S1); z != 2 {
		t.Errorf("expected %v, got %v", 2, z)
	}

	if _, err := pi.ArgmaxAction(env, coin.S0); !errors.Is(err, rl.ErrUnsupportedOperation) {
		t.Errorf("expected ErrUnsupportedOperation, got %v", err)
	}

	terminal := maxbias.New()
	randomB := Random[maxbias.State, maxbias.Action]{}
	if _, err := randomB.Probability(terminal, maxbias.Win, maxbias.GoLeft); !errors.Is(err, rl.ErrNoActions) {
		t.Errorf("expected ErrNoActions, got %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	counts := make(map[coin.Action]int)
	for i := 0; i < 10000; i++ {
		a, err := pi.Action(rng, env, coin.S0)
		if err != nil {
			t.Fatal(err)
		}

		counts[a]++
	}

	if frac := float64(counts[coin.A0]) / 10000; math.Abs(frac-0.5) > 0.03 {
		t.Errorf("expected uniform actions, got %v", counts)
	}
}

func TestGreedy(t *testing.T) {
	env := coin.New()
	vf := newTable(t, rl.StateActionKeys)
	vf.Set(vf.Key(coin.S0, coin.A1), 1.0)
	pi := NewGreedy[coin.State, coin.Action](vf)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		if a, _ := pi.Action(rng, env, coin.S0); a != coin.A1 {
			t.Errorf("expected %v, got %v", coin.A1, a)
		}
	}

	if p, _ := pi.Probability(env, coin.S0, coin.A1); p != 1 {
		t.Errorf("expected %v, got %v", 1, p)
	}

	if logP, _ := pi.LogProbability(env, coin.S0, coin.A0); !math.IsInf(logP, -1) {
		t.Errorf("expected -Inf, got %v", logP)
	}

	// Ties go to the first action.
	if a, _ := pi.ArgmaxAction(env, coin.S1); a != coin.A0 {
		t.Errorf("expected %v, got %v", coin.A0, a)
	}

	tr := rl.Transition[coin.State, coin.Action]{State: coin.S1, Action: coin.A1, NextState: coin.S1}
	if err := pi.Update(env, tr); err != nil {
		t.Fatal(err)
	}

	if v := vf.ValueAt(vf.Key(coin.S1, coin.A1)); v != 1 {
		t.Errorf("expected %v, got %v", 1, v)
	}
}

func TestEpsilonSoft(t *testing.T) {
	env := coin.New()
	vf := newTable(t, rl.StateActionKeys)
	vf.Set(vf.Key(coin.S0, coin.A1), 1.0)

	if _, err := NewEpsilonGreedy[coin.State, coin.Action](1.5, vf); !errors.Is(err, rl.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	pi, err := NewEpsilonGreedy[coin.State, coin.Action](0.2, vf)
	if err != nil {
		t.Fatal(err)
	}

	p, _ := pi.Probability(env, coin.S0, coin.A1)
	if math.Abs(p-0.9) > 1e-12 {
		t.Errorf("expected %v, got %v", 0.9, p)
	}

	p, _ = pi.Probability(env, coin.S0, coin.A0)
	if math.Abs(p-0.1) > 1e-12 {
		t.Errorf("expected %v, got %v", 0.1, p)
	}

	if _, err := pi.Kernel(env, coin.S0, coin.A0); !errors.Is(err, rl.ErrUnsupportedOperation) {
		t.Errorf("expected ErrUnsupportedOperation, got %v", err)
	}

	rng := rand.New(rand.NewSource(3))
	n := 20000
	nA0 := 0
	for i := 0; i < n; i++ {
		a, err := pi.Action(rng, env, coin.S0)
		if err != nil {
			t.Fatal(err)
		}

		if a == coin.A0 {
			nA0++
		}
	}

	if frac := float64(nA0) / float64(n); math.Abs(frac-0.1) > 0.02 {
		t.Errorf("expected exploration fraction ~%v, got %v", 0.1, frac)
	}
}

func TestSoftmax(t *testing.T) {
	env := coin.New()
	vf := newTable(t, rl.StateActionKeys)
	pi, err := NewSoftmax(vf)
	if err != nil {
		t.Fatal(err)
	}

	// Nothing has been created yet.
	if p, _ := pi.Probability(env, coin.S0, coin.A0); p != 0 {
		t.Errorf("expected %v, got %v", 0, p)
	}

	if logP, _ := pi.LogProbability(env, coin.S0, coin.A0); !math.IsInf(logP, -1) {
		t.Errorf("expected -Inf, got %v", logP)
	}

	vf.Set(vf.Key(coin.S0, coin.A0), math.Log(3))
	vf.Set(vf.Key(coin.S0, coin.A1), 0)
	p, err := pi.Probability(env, coin.S0, coin.A0)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(p-0.75) > 1e-12 {
		t.Errorf("expected %v, got %v", 0.75, p)
	}

	z, _ := pi.Normalisation(env, coin.S0)
	if math.Abs(z-4) > 1e-12 {
		t.Errorf("expected %v, got %v", 4, z)
	}

	vf.Set(vf.Key(coin.S1, coin.A0), 1000)
	if _, err := pi.Kernel(env, coin.S1, coin.A0); !errors.Is(err, rl.ErrNumeric) {
		t.Errorf("expected ErrNumeric, got %v", err)
	}

	states := newTable(t, rl.StateKeys)
	if _, err := NewSoftmax(states); !errors.Is(err, rl.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSoftmax_Action(t *testing.T) {
	env := coin.New()
	vf := newTable(t, rl.StateActionKeys)
	pi, _ := NewSoftmax(vf)
	vf.Set(vf.Key(coin.S0, coin.A1), math.Log(4))

	rng := rand.New(rand.NewSource(5))
	n := 20000
	nA1 := 0
	for i := 0; i < n; i++ {
		a, err := pi.Action(rng, env, coin.S0)
		if err != nil {
			t.Fatal(err)
		}

		if a == coin.A1 {
			nA1++
		}
	}

	// Action creates the missing key for A0 with value 0.
	if _, ok := vf.Lookup(vf.Key(coin.S0, coin.A0)); !ok {
		t.Error("expected Action to create the values of reachable actions")
	}

	if frac := float64(nA1) / float64(n); math.Abs(frac-0.8) > 0.02 {
		t.Errorf("expected P(a1) ~%v, got %v", 0.8, frac)
	}
}

func TestSoftmax_SetDeterministic(t *testing.T) {
	env := coin.New()
	vf := newTable(t, rl.StateActionKeys)
	pi, _ := NewSoftmax(vf)
	pi.Initialize(env)

	for _, s := range env.States() {
		for _, a := range env.ReachableActions(s) {
			if err := pi.SetDeterministic(env, s, a); err != nil {
				t.Fatal(err)
			}

			for _, b := range env.ReachableActions(s) {
				p, err := pi.Probability(env, s, b)
				if err != nil {
					t.Fatal(err)
				}

				expected := 0.0
				if b == a {
					expected = 1.0
				}

				if p != expected {
					t.Errorf("P(%v|%v) after SetDeterministic(%v): expected %v, got %v",
						b, s, a, expected, p)
				}
			}

			if best, _ := pi.ArgmaxAction(env, s); best != a {
				t.Errorf("expected argmax %v, got %v", a, best)
			}
		}
	}

	// The distribution can be softened again.
	vf.Set(vf.Key(coin.S0, coin.A0), 0)
	vf.Set(vf.Key(coin.S0, coin.A1), 0)
	if p, _ := pi.Probability(env, coin.S0, coin.A0); math.Abs(p-0.5) > 1e-12 {
		t.Errorf("expected %v, got %v", 0.5, p)
	}
}

func TestSoftmax_GradientUpdate(t *testing.T) {
	env := coin.New()
	vf := newTable(t, rl.ActionKeys)
	pi, _ := NewSoftmax(vf)

	if err := pi.GradientUpdate(env, coin.S0, coin.A1, 1.0, 0.0, 0.1); err != nil {
		t.Fatal(err)
	}

	// π was uniform, so H(a1) = 0.05 and H(a0) = -0.05.
	if h := vf.ValueAt(vf.Key(coin.S0, coin.A1)); math.Abs(h-0.05) > 1e-12 {
		t.Errorf("expected %v, got %v", 0.05, h)
	}

	if h := vf.ValueAt(vf.Key(coin.S1, coin.A0)); math.Abs(h+0.05) > 1e-12 {
		t.Errorf("expected %v, got %v", -0.05, h)
	}

	p, _ := pi.Probability(env, coin.S1, coin.A1)
	if p <= 0.5 {
		t.Errorf("expected rewarded action to become more likely, got %v", p)
	}
}

func TestAdditive(t *testing.T) {
	env := coin.New()
	q1 := newTable(t, rl.StateActionKeys)
	q2 := newTable(t, rl.StateActionKeys)
	q1.Set(q1.Key(coin.S0, coin.A0), 2.0)
	q2.Set(q2.Key(coin.S0, coin.A1), 1.5)
	q2.Set(q2.Key(coin.S0, coin.A0), -1.0)

	av, err := NewAdditive[coin.State, coin.Action](q1, q2)
	if err != nil {
		t.Fatal(err)
	}

	if v := av.Peek(av.Key(coin.S0, coin.A0)); v != 1.0 {
		t.Errorf("expected %v, got %v", 1.0, v)
	}

	a, err := av.ArgmaxAction(env, coin.S0)
	if err != nil {
		t.Fatal(err)
	}

	if a != coin.A1 {
		t.Errorf("expected %v, got %v", coin.A1, a)
	}

	states := newTable(t, rl.StateKeys)
	if _, err := NewAdditive[coin.State, coin.Action](q1, states); !errors.Is(err, rl.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	pi := NewGreedy[coin.State, coin.Action](av)
	if err := pi.Update(env, rl.Transition[coin.State, coin.Action]{}); !errors.Is(err, rl.ErrUnsupportedOperation) {
		t.Errorf("expected ErrUnsupportedOperation, got %v", err)
	}
}
