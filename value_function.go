package rl

import (
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ValueFunction is a lazily-populated table of Values.
//
// Lookups never fail: a key that has not been seen before is created
// with the initial value (and Step = 1) as a side effect of reading it.
// Values are never deleted.
type ValueFunction[S, A comparable] struct {
	params Params
	store  Store[S, A]
}

// NewValueFunction creates a ValueFunction backed by the given Store.
func NewValueFunction[S, A comparable](params Params, store Store[S, A]) (*ValueFunction[S, A], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if store == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "nil store")
	}

	return &ValueFunction[S, A]{params: params, store: store}, nil
}

// NewTable creates a ValueFunction backed by an in-memory MapStore.
func NewTable[S, A comparable](params Params) (*ValueFunction[S, A], error) {
	return NewValueFunction[S, A](params, NewMapStore[S, A]())
}

func (vf *ValueFunction[S, A]) Params() Params         { return vf.params }
func (vf *ValueFunction[S, A]) KeyMaker() KeyMaker     { return vf.params.KeyMaker }
func (vf *ValueFunction[S, A]) Discount() float64      { return vf.params.Discount }
func (vf *ValueFunction[S, A]) InitialValue() float64  { return vf.params.InitialValue }
func (vf *ValueFunction[S, A]) Store() Store[S, A]     { return vf.store }
func (vf *ValueFunction[S, A]) Len() int               { return vf.store.Len() }
func (vf *ValueFunction[S, A]) Key(s S, a A) Key[S, A] { return MakeKey(vf.params.KeyMaker, s, a) }

// Get returns the Value for k, creating it if necessary.
func (vf *ValueFunction[S, A]) Get(k Key[S, A]) Value {
	v, ok := vf.store.Get(k)
	if !ok {
		v = Value{Value: vf.params.InitialValue, Step: 1}
		vf.store.Put(k, v)
	}

	return v
}

// ValueAt returns the current estimate for k, creating it if necessary.
func (vf *ValueFunction[S, A]) ValueAt(k Key[S, A]) float64 {
	return vf.Get(k).Value
}

// Lookup returns the Value for k without creating it.
func (vf *ValueFunction[S, A]) Lookup(k Key[S, A]) (Value, bool) {
	return vf.store.Get(k)
}

// Peek returns the estimate for k, or the initial value if k has never
// been seen. It does not create k.
func (vf *ValueFunction[S, A]) Peek(k Key[S, A]) float64 {
	if v, ok := vf.store.Get(k); ok {
		return v.Value
	}

	return vf.params.InitialValue
}

// Set overwrites the estimate for k, leaving its step count unchanged.
func (vf *ValueFunction[S, A]) Set(k Key[S, A], value float64) {
	v := vf.Get(k)
	v.Value = value
	vf.store.Put(k, v)
}

// Put overwrites the Value for k.
func (vf *ValueFunction[S, A]) Put(k Key[S, A], v Value) {
	vf.store.Put(k, v)
}

// Update moves the estimate for k toward target by the step size
// and increments its step count.
func (vf *ValueFunction[S, A]) Update(k Key[S, A], target float64) float64 {
	return vf.UpdateWeighted(k, target, 1.0)
}

// UpdateWeighted is Update with the step additionally scaled by w,
// e.g. an importance sampling ratio.
func (vf *ValueFunction[S, A]) UpdateWeighted(k Key[S, A], target, w float64) float64 {
	v := vf.Get(k)
	alpha := vf.params.StepSize.StepSize(v)
	v.Value += alpha * w * (target - v.Value)
	v.Step++
	vf.store.Put(k, v)
	return v.Value
}

// IncrementalUpdate folds the reward of t into the estimate for
// (t.State, t.Action). A key seen for the first time takes the reward
// as its value, so that sample-average step sizes yield the exact mean.
func (vf *ValueFunction[S, A]) IncrementalUpdate(env Environment[S, A], t Transition[S, A]) {
	reward := env.Reward(t)
	k := vf.Key(t.State, t.Action)
	if _, ok := vf.store.Get(k); !ok {
		vf.store.Put(k, Value{Value: reward, Step: 1})
		return
	}

	vf.Update(k, reward)
}

// Initialize creates every reachable key if env can enumerate its states.
// Terminal states (with no reachable actions) get a key for the zero action.
// For other environments it does nothing; keys are then created lazily.
func (vf *ValueFunction[S, A]) Initialize(env Environment[S, A]) {
	finite, ok := env.(FiniteEnvironment[S, A])
	if !ok {
		return
	}

	for _, s := range finite.States() {
		actions := finite.ReachableActions(s)
		if len(actions) == 0 {
			var none A
			vf.Get(vf.Key(s, none))
			continue
		}

		for _, a := range actions {
			vf.Get(vf.Key(s, a))
		}
	}

	glog.V(1).Infof("Initialized %v table with %d keys", vf.params.KeyMaker, vf.store.Len())
}

// ArgmaxAction returns the reachable action with the greatest estimate
// in state s. Keys that have not been seen count as the initial value.
// Ties go to the action that comes first in env.ReachableActions(s).
func (vf *ValueFunction[S, A]) ArgmaxAction(env Environment[S, A], s S) (A, error) {
	actions := env.ReachableActions(s)
	if len(actions) == 0 {
		var none A
		return none, errors.Wrapf(ErrNoActions, "state %v", s)
	}

	best := actions[0]
	bestValue := math.Inf(-1)
	for _, a := range actions {
		if q := vf.Peek(vf.Key(s, a)); q > bestValue {
			best, bestValue = a, q
		}
	}

	return best, nil
}

// MaxValue returns the greatest estimate over the reachable actions of s,
// creating the keys it reads.
func (vf *ValueFunction[S, A]) MaxValue(env Environment[S, A], s S) (float64, error) {
	actions := env.ReachableActions(s)
	if len(actions) == 0 {
		return 0, errors.Wrapf(ErrNoActions, "state %v", s)
	}

	best := math.Inf(-1)
	for _, a := range actions {
		if q := vf.ValueAt(vf.Key(s, a)); q > best {
			best = q
		}
	}

	return best, nil
}

// Range calls fn for every stored key.
func (vf *ValueFunction[S, A]) Range(fn func(Key[S, A], Value) bool) {
	vf.store.Range(fn)
}
