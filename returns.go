package rl

// DiscountedReturn returns Σ_k γ^k R_k over the given transitions,
// with rewards assigned by env.
func DiscountedReturn[S, A comparable](env Environment[S, A], transitions []Transition[S, A], discount float64) float64 {
	g := 0.0
	for i := len(transitions) - 1; i >= 0; i-- {
		g = env.Reward(transitions[i]) + discount*g
	}

	return g
}

// EpisodeStats summarize one episode of learning.
type EpisodeStats struct {
	Steps int
	// Reward is the undiscounted sum of rewards.
	Reward float64
	// Truncated is true if the episode was cut off before reaching
	// a terminal transition.
	Truncated bool
}
