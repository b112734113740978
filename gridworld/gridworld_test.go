package gridworld

import (
	"testing"

	"golang.org/x/exp/rand"
)

func TestMove(t *testing.T) {
	testCases := []struct {
		s        State
		a        Action
		expected State
	}{
		{1, Up, 1},
		{1, Down, 5},
		{4, Left, 4},
		{5, Right, 6},
		{11, Down, 15},
		{14, Right, 15},
	}

	for _, tc := range testCases {
		if next := move(tc.s, tc.a); next != tc.expected {
			t.Errorf("%v %v: expected %v, got %v", tc.s, tc.a, tc.expected, next)
		}
	}
}

func TestEpisodeEnds(t *testing.T) {
	env := New(6)
	rng := rand.New(rand.NewSource(1))
	s := env.Reset()
	for i := 0; i < 10000; i++ {
		actions := env.ReachableActions(s)
		tr := env.Step(rng, actions[rng.Intn(len(actions))])
		env.Update(tr)
		s = tr.NextState
		if tr.Done {
			if !IsTerminal(s) {
				t.Fatalf("episode ended in non-terminal %v", s)
			}

			return
		}
	}

	t.Error("expected random walk to reach a terminal state")
}

func TestOptimalValue(t *testing.T) {
	expected := []float64{0, -1, -2, -3, -1, -2, -3, -2, -2, -3, -2, -1, -3, -2, -1, 0}
	for i, v := range expected {
		if got := OptimalValue(State(i)); got != v {
			t.Errorf("V*(%d): expected %v, got %v", i, v, got)
		}
	}
}
