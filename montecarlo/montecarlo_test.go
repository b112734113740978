package montecarlo

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/coin"
	"github.com/timpalpant/go-rl/policy"
)

func newTable(t testing.TB) *rl.ValueFunction[coin.State, coin.Action] {
	vf, err := rl.NewTable[coin.State, coin.Action](rl.DefaultParams(coin.Discount))
	if err != nil {
		t.Fatal(err)
	}

	return vf
}

func TestVisits(t *testing.T) {
	k := func(s coin.State, a coin.Action) rl.Key[coin.State, coin.Action] {
		return rl.Key[coin.State, coin.Action]{State: s, Action: a}
	}

	keys := []rl.Key[coin.State, coin.Action]{
		k(coin.S0, coin.A0), k(coin.S1, coin.A0), k(coin.S0, coin.A0),
		k(coin.S0, coin.A1), k(coin.S1, coin.A0),
	}

	first := FirstVisit[coin.State, coin.Action]{}.Accept(keys)
	expected := []bool{true, true, false, true, false}
	for i := range expected {
		if first[i] != expected[i] {
			t.Errorf("first visit %d: expected %v, got %v", i, expected[i], first[i])
		}
	}

	for i, ok := range (EveryVisit[coin.State, coin.Action]{}).Accept(keys) {
		if !ok {
			t.Errorf("every visit %d: expected true", i)
		}
	}
}

func TestUpdaters(t *testing.T) {
	vf := newTable(t)
	k := vf.Key(coin.S0, coin.A0)
	returns := []float64{1, 4, -2, 5}

	naive := NewNaiveAverage[coin.State, coin.Action]()
	for _, g := range returns {
		naive.Update(vf, k, g, 1)
	}

	if v := vf.ValueAt(k); v != 2 {
		t.Errorf("naive: expected %v, got %v", 2, v)
	}

	incremental := NewIncrementalAverage[coin.State, coin.Action]()
	k1 := vf.Key(coin.S0, coin.A1)
	for _, g := range returns {
		incremental.Update(vf, k1, g, 1)
	}

	if v := vf.ValueAt(k1); math.Abs(v-2) > 1e-12 {
		t.Errorf("incremental: expected %v, got %v", 2, v)
	}

	ordinary := NewOrdinaryImportanceSampling[coin.State, coin.Action]()
	k2 := vf.Key(coin.S1, coin.A0)
	ordinary.Update(vf, k2, 4, 0.5)
	ordinary.Update(vf, k2, 2, 3)
	if v := vf.ValueAt(k2); v != 4 {
		t.Errorf("ordinary: expected %v, got %v", 4, v)
	}

	weighted := NewWeightedImportanceSampling[coin.State, coin.Action]()
	k3 := vf.Key(coin.S1, coin.A1)
	weighted.Update(vf, k3, 10, 0)
	if v := vf.ValueAt(k3); v != 0 {
		t.Errorf("weighted: expected zero weight to be ignored, got %v", v)
	}

	weighted.Update(vf, k3, 4, 1)
	weighted.Update(vf, k3, 1, 2)
	if v := vf.ValueAt(k3); math.Abs(v-2) > 1e-12 {
		t.Errorf("weighted: expected %v, got %v", 2, v)
	}
}

func TestRollout(t *testing.T) {
	env := coin.New()
	rng := rand.New(rand.NewSource(1))
	pi := policy.Random[coin.State, coin.Action]{}

	episode, err := Rollout[coin.State, coin.Action]{MaxLength: 25}.Generate(rng, env, pi)
	if err != nil {
		t.Fatal(err)
	}

	if len(episode) != 25 {
		t.Errorf("expected %d transitions, got %d", 25, len(episode))
	}

	for i := 1; i < len(episode); i++ {
		if episode[i].State != episode[i-1].NextState {
			t.Errorf("transition %d does not continue from %v", i, episode[i-1].NextState)
		}
	}

	if _, err := (Rollout[coin.State, coin.Action]{}).Generate(rng, env, pi); !errors.Is(err, rl.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

type opaqueEnvironment struct {
	rl.Environment[coin.State, coin.Action]
}

func TestExploringStarts(t *testing.T) {
	env := coin.New()
	rng := rand.New(rand.NewSource(1))
	pi := policy.Random[coin.State, coin.Action]{}
	gen := ExploringStarts[coin.State, coin.Action]{MaxLength: 5}

	starts := make(map[rl.Key[coin.State, coin.Action]]int)
	for i := 0; i < 1000; i++ {
		episode, err := gen.Generate(rng, env, pi)
		if err != nil {
			t.Fatal(err)
		}

		if len(episode) != 5 {
			t.Fatalf("expected %d transitions, got %d", 5, len(episode))
		}

		starts[rl.Key[coin.State, coin.Action]{State: episode[0].State, Action: episode[0].Action}]++
	}

	if len(starts) != 4 {
		t.Errorf("expected all 4 state-action pairs as starts, got %v", starts)
	}

	if _, err := gen.Generate(rng, opaqueEnvironment{env}, pi); !errors.Is(err, rl.ErrUnsupportedOperation) {
		t.Errorf("expected ErrUnsupportedOperation, got %v", err)
	}
}

func runControl(t *testing.T, control *Control[coin.State, coin.Action], offPolicy bool, nEpisodes int) *rl.ValueFunction[coin.State, coin.Action] {
	env := coin.New()
	vf := newTable(t)
	behavior, err := policy.NewEpsilonGreedy[coin.State, coin.Action](0.2, vf)
	if err != nil {
		t.Fatal(err)
	}

	var target policy.Distribution[coin.State, coin.Action]
	if offPolicy {
		target = behavior
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < nEpisodes; i++ {
		if _, err := control.Episode(rng, env, vf, behavior, target); err != nil {
			t.Fatal(err)
		}
	}

	return vf
}

func TestNaiveEqualsIncremental(t *testing.T) {
	naive := runControl(t, &Control[coin.State, coin.Action]{
		Generator: Rollout[coin.State, coin.Action]{MaxLength: 10},
		Visits:    FirstVisit[coin.State, coin.Action]{},
		Updater:   NewNaiveAverage[coin.State, coin.Action](),
	}, false, 200)

	incremental := runControl(t, &Control[coin.State, coin.Action]{
		Generator: Rollout[coin.State, coin.Action]{MaxLength: 10},
		Visits:    FirstVisit[coin.State, coin.Action]{},
		Updater:   NewIncrementalAverage[coin.State, coin.Action](),
	}, false, 200)

	compareTables(t, naive, incremental, 1e-9)
}

// With target == behavior every importance ratio is 1.
func TestOffPolicyEqualsOnPolicy(t *testing.T) {
	newControl := func() *Control[coin.State, coin.Action] {
		return &Control[coin.State, coin.Action]{
			Generator: Rollout[coin.State, coin.Action]{MaxLength: 10},
			Visits:    EveryVisit[coin.State, coin.Action]{},
			Updater:   NewOrdinaryImportanceSampling[coin.State, coin.Action](),
		}
	}

	onPolicy := runControl(t, newControl(), false, 200)
	offPolicy := runControl(t, newControl(), true, 200)
	compareTables(t, onPolicy, offPolicy, 0)
}

func compareTables(t *testing.T, expected, got *rl.ValueFunction[coin.State, coin.Action], tol float64) {
	if expected.Len() != got.Len() {
		t.Errorf("expected %d keys, got %d", expected.Len(), got.Len())
	}

	expected.Range(func(k rl.Key[coin.State, coin.Action], v rl.Value) bool {
		x, ok := got.Lookup(k)
		if !ok || math.Abs(x.Value-v.Value) > tol {
			t.Errorf("%v: expected %v, got %v", k, v.Value, x.Value)
		}

		return true
	})
}

func checkCoinPolicy(t *testing.T, vf *rl.ValueFunction[coin.State, coin.Action]) {
	env := coin.New()
	for s, expected := range coin.OptimalPolicy {
		a, err := vf.ArgmaxAction(env, s)
		if err != nil {
			t.Fatal(err)
		}

		t.Logf("Q(%v, a0) = %v, Q(%v, a1) = %v", s, vf.ValueAt(vf.Key(s, coin.A0)), s, vf.ValueAt(vf.Key(s, coin.A1)))
		if a != expected {
			t.Errorf("%v: expected %v, got %v", s, expected, a)
		}
	}
}

func TestOnPolicyControl_Coin(t *testing.T) {
	vf := runControl(t, NewOnPolicy[coin.State, coin.Action](20), false, 2000)
	checkCoinPolicy(t, vf)
}

func TestOffPolicyControl_Coin(t *testing.T) {
	env := coin.New()
	vf := newTable(t)
	behavior := policy.Random[coin.State, coin.Action]{}
	target := policy.NewGreedy[coin.State, coin.Action](vf)
	control := NewOffPolicy[coin.State, coin.Action](10)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		if _, err := control.Episode(rng, env, vf, behavior, target); err != nil {
			t.Fatal(err)
		}
	}

	checkCoinPolicy(t, vf)
}

// zeroBehavior takes A0 but claims it never does.
type zeroBehavior struct {
	policy.Random[coin.State, coin.Action]
}

func (zeroBehavior) Action(rng *rand.Rand, env rl.Environment[coin.State, coin.Action], s coin.State) (coin.Action, error) {
	return coin.A0, nil
}

func (zeroBehavior) Probability(env rl.Environment[coin.State, coin.Action], s coin.State, a coin.Action) (float64, error) {
	return 0, nil
}

func TestZeroBehaviorProbability(t *testing.T) {
	env := coin.New()
	vf := newTable(t)
	target := policy.Random[coin.State, coin.Action]{}
	control := NewOffPolicy[coin.State, coin.Action](5)

	rng := rand.New(rand.NewSource(1))
	_, err := control.Episode(rng, env, vf, zeroBehavior{}, target)
	if !errors.Is(err, rl.ErrNumeric) {
		t.Errorf("expected ErrNumeric, got %v", err)
	}
}
