package bandit

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/policy"
	"github.com/timpalpant/go-rl/sampling"
	"github.com/timpalpant/go-rl/td"
)

func newTestbed(t testing.TB) *Testbed {
	tb, err := NewTestbedWithMeans([]float64{0, 1, 0.5}, 1)
	if err != nil {
		t.Fatal(err)
	}

	return tb
}

func TestTestbed(t *testing.T) {
	rng := sampling.New(1)
	tb, err := NewTestbed(rng, 10)
	if err != nil {
		t.Fatal(err)
	}

	if tb.K() != 10 {
		t.Errorf("expected 10 arms, got %d", tb.K())
	}

	best := tb.OptimalArm()
	for i, mu := range tb.Means() {
		if mu > tb.Means()[best] {
			t.Errorf("arm %d has mean %v > optimal %v", i, mu, tb.Means()[best])
		}
	}

	if _, err := NewTestbed(rng, 0); !errors.Is(err, rl.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewTestbedWithMeans([]float64{0}, -1); !errors.Is(err, rl.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	fixed, err := NewTestbedWithMeans([]float64{0.25, -2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r := fixed.Pull(rng, 1); r != -2 {
		t.Errorf("expected -2, got %v", r)
	}
}

func TestTestbed_Environment(t *testing.T) {
	tb := newTestbed(t)
	vf, err := rl.NewTable[Pull, int](rl.Params{
		KeyMaker: rl.ActionKeys,
		Discount: 1,
		StepSize: rl.SampleAverage{},
	})
	if err != nil {
		t.Fatal(err)
	}

	rng := sampling.New(123)
	learner := td.NewQLearning[Pull, int]()
	for i := 0; i < 3000; i++ {
		stats, err := learner.Episode(rng, tb, vf, policy.Random[Pull, int]{}, nil, 1)
		if err != nil {
			t.Fatal(err)
		}
		if stats.Steps != 1 || stats.Truncated {
			t.Fatalf("expected a single terminal step, got %+v", stats)
		}
	}

	if vf.Len() != tb.K() {
		t.Errorf("expected %d keys, got %d", tb.K(), vf.Len())
	}

	for arm, mu := range tb.Means() {
		q := vf.ValueAt(vf.Key(Pull{Reward: 42}, arm))
		t.Logf("arm %d: q* = %v, Q = %v", arm, mu, q)
		if math.Abs(q-mu) > 0.15 {
			t.Errorf("arm %d: expected %v, got %v", arm, mu, q)
		}
	}
}

func TestEstimates(t *testing.T) {
	e, err := NewEstimates(3, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i, q := range e.Values {
		if q != 5 || e.Counts[i] != 0 {
			t.Errorf("arm %d: expected (5, 0), got (%v, %d)", i, q, e.Counts[i])
		}
	}

	bad := &Estimates{Values: []float64{1, 2}, Counts: []int{1}}
	if err := bad.Validate(); !errors.Is(err, rl.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewStrategy(bad, Always(false), UniformExplorer{}, Argmax{}, rl.SampleAverage{}); !errors.Is(err, rl.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewEstimates(0, 0); !errors.Is(err, rl.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestBinaryChoice(t *testing.T) {
	for _, p := range []float64{-0.1, 1.1, math.NaN()} {
		if _, err := NewBinaryChoice(p); !errors.Is(err, rl.ErrInvalidConfig) {
			t.Errorf("p = %v: expected ErrInvalidConfig, got %v", p, err)
		}
	}

	rng := sampling.New(7)
	never, _ := NewBinaryChoice(0)
	always, _ := NewBinaryChoice(1)
	half, _ := NewBinaryChoice(0.5)
	n := 0
	for i := 0; i < 10000; i++ {
		if never.Explore(rng) {
			t.Fatal("p = 0 explored")
		}
		if !always.Explore(rng) {
			t.Fatal("p = 1 exploited")
		}
		if half.Explore(rng) {
			n++
		}
	}

	if n < 4800 || n > 5200 {
		t.Errorf("expected ~5000 explorations, got %d", n)
	}
}

func TestArgmax(t *testing.T) {
	e := &Estimates{Values: []float64{1, 3, 3, -1}, Counts: make([]int, 4)}
	if a := (Argmax{}).Exploit(e); a != 1 {
		t.Errorf("expected 1, got %d", a)
	}
}

func TestUpperConfidenceBound(t *testing.T) {
	ucb := UpperConfidenceBound{C: 2}

	untried := &Estimates{Values: []float64{10, 0, 0}, Counts: []int{5, 1, 0}}
	if a := ucb.Exploit(untried); a != 2 {
		t.Errorf("expected untried arm 2, got %d", a)
	}

	// Equal estimates: the arm selected least often has the widest bound.
	e := &Estimates{Values: []float64{0, 0}, Counts: []int{10, 1}}
	if a := ucb.Exploit(e); a != 1 {
		t.Errorf("expected 1, got %d", a)
	}

	// With a single selection ln(t) = 0 and the bound is the estimate.
	single := &Estimates{Values: []float64{-1}, Counts: []int{1}}
	if a := ucb.Exploit(single); a != 0 {
		t.Errorf("expected 0, got %d", a)
	}

	greedy := UpperConfidenceBound{C: 0}
	e = &Estimates{Values: []float64{0.5, 0.25}, Counts: []int{10, 1}}
	if a := greedy.Exploit(e); a != 0 {
		t.Errorf("expected 0, got %d", a)
	}
}

func TestStrategy_Update(t *testing.T) {
	s, err := NewEpsilonGreedy(2, 0)
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range []float64{1, 2, 3} {
		s.Update(0, r)
	}
	if q := s.Estimates.Values[0]; math.Abs(q-2) > 1e-12 {
		t.Errorf("expected sample mean 2, got %v", q)
	}
	if n := s.Estimates.Counts[0]; n != 3 {
		t.Errorf("expected 3 selections, got %d", n)
	}

	e, _ := NewEstimates(1, 0)
	alpha, _ := rl.NewConstantStepSize(0.5)
	c, err := NewStrategy(e, Always(false), UniformExplorer{}, Argmax{}, alpha)
	if err != nil {
		t.Fatal(err)
	}
	c.Update(0, 1)
	c.Update(0, 1)
	if q := c.Estimates.Values[0]; q != 0.75 {
		t.Errorf("expected 0.75, got %v", q)
	}
}

func TestStrategy_Explore(t *testing.T) {
	e, _ := NewEstimates(4, 0)
	s, err := NewStrategy(e, Always(true), UniformExplorer{}, Argmax{}, rl.SampleAverage{})
	if err != nil {
		t.Fatal(err)
	}

	rng := sampling.New(3)
	counts := make([]int, 4)
	for i := 0; i < 4000; i++ {
		counts[s.Select(rng)]++
	}

	for arm, n := range counts {
		if n < 850 || n > 1150 {
			t.Errorf("arm %d: expected ~1000 selections, got %d", arm, n)
		}
	}
}

func TestStrategy_Run(t *testing.T) {
	epsGreedy, err := NewEpsilonGreedy(3, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	ucb, err := NewUCB(3, 2)
	if err != nil {
		t.Fatal(err)
	}

	for name, s := range map[string]*Strategy{"epsilon-greedy": epsGreedy, "ucb": ucb} {
		t.Run(name, func(t *testing.T) {
			tb := newTestbed(t)
			result, err := s.Run(sampling.New(11), tb, 2000)
			if err != nil {
				t.Fatal(err)
			}

			n := 0
			for _, ok := range result.Optimal[1000:] {
				if ok {
					n++
				}
			}

			frac := float64(n) / 1000
			t.Logf("%s: optimal fraction %v, estimates %v", name, frac, s.Estimates.Values)
			if frac < 0.7 {
				t.Errorf("expected optimal fraction > 0.7, got %v", frac)
			}
		})
	}

	s, _ := NewEpsilonGreedy(2, 0.1)
	if _, err := s.Run(sampling.New(1), newTestbed(t), 10); !errors.Is(err, rl.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestGradient(t *testing.T) {
	g, err := NewGradient(0.1, true)
	if err != nil {
		t.Fatal(err)
	}

	tb := newTestbed(t)
	result, err := g.Run(sampling.New(17), tb, 2000)
	if err != nil {
		t.Fatal(err)
	}

	n := 0
	for _, ok := range result.Optimal[1000:] {
		if ok {
			n++
		}
	}

	frac := float64(n) / 1000
	t.Logf("gradient: optimal fraction %v", frac)
	if frac < 0.6 {
		t.Errorf("expected optimal fraction > 0.6, got %v", frac)
	}

	// Each update moves the chosen preference up by as much as it moves
	// the others down.
	total, ptotal := 0.0, 0.0
	for arm := 0; arm < tb.K(); arm++ {
		total += g.Preference(arm)
		p, err := g.Probability(tb, arm)
		if err != nil {
			t.Fatal(err)
		}
		ptotal += p
	}

	if math.Abs(total) > 1e-9 {
		t.Errorf("expected preferences to sum to 0, got %v", total)
	}
	if math.Abs(ptotal-1) > 1e-9 {
		t.Errorf("expected probabilities to sum to 1, got %v", ptotal)
	}

	if _, err := NewGradient(0, true); !errors.Is(err, rl.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestAverage(t *testing.T) {
	reward, optimal := Average([]Result{
		{Rewards: []float64{1, 2}, Optimal: []bool{true, false}},
		{Rewards: []float64{3, 0}, Optimal: []bool{true, true}},
	})

	if reward[0] != 2 || reward[1] != 1 {
		t.Errorf("expected [2 1], got %v", reward)
	}
	if optimal[0] != 1 || optimal[1] != 0.5 {
		t.Errorf("expected [1 0.5], got %v", optimal)
	}
}

// BenchmarkStrategy_Select-24    	30000000	        45.1 ns/op
func BenchmarkStrategy_Select(b *testing.B) {
	s, err := NewEpsilonGreedy(10, 0.1)
	if err != nil {
		b.Fatal(err)
	}

	rng := sampling.New(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Select(rng)
	}
}
