package rl

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

// MarshalTo writes the params and every stored Value of vf to w.
// The step size is saved by kind only: ConstantStepSize or SampleAverage.
// S and A must be encodable by encoding/gob.
func (vf *ValueFunction[S, A]) MarshalTo(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(newSavedParams(vf.params)); err != nil {
		return err
	}

	if err := enc.Encode(vf.store.Len()); err != nil {
		return err
	}

	var err error
	vf.store.Range(func(k Key[S, A], v Value) bool {
		if err = enc.Encode(k); err != nil {
			return false
		}

		err = enc.Encode(v)
		return err == nil
	})

	return err
}

// LoadValueFunction reads a ValueFunction written by MarshalTo into
// the given store.
func LoadValueFunction[S, A comparable](r io.Reader, store Store[S, A]) (*ValueFunction[S, A], error) {
	dec := gob.NewDecoder(r)
	var saved savedParams
	if err := dec.Decode(&saved); err != nil {
		return nil, err
	}

	params, err := saved.params()
	if err != nil {
		return nil, err
	}

	vf, err := NewValueFunction[S, A](params, store)
	if err != nil {
		return nil, err
	}

	var nKeys int
	if err := dec.Decode(&nKeys); err != nil {
		return nil, err
	}

	for i := 0; i < nKeys; i++ {
		var k Key[S, A]
		if err := dec.Decode(&k); err != nil {
			return nil, err
		}

		var v Value
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}

		store.Put(k, v)
	}

	return vf, nil
}

type savedParams struct {
	KeyMaker      KeyMaker
	InitialValue  float64
	Discount      float64
	SampleAverage bool
	Alpha         float64
}

func newSavedParams(p Params) savedParams {
	saved := savedParams{
		KeyMaker:     p.KeyMaker,
		InitialValue: p.InitialValue,
		Discount:     p.Discount,
	}

	switch s := p.StepSize.(type) {
	case SampleAverage, *SampleAverage:
		saved.SampleAverage = true
	default:
		saved.Alpha = s.StepSize(Value{Step: 1})
	}

	return saved
}

func (s savedParams) params() (Params, error) {
	p := Params{
		KeyMaker:     s.KeyMaker,
		InitialValue: s.InitialValue,
		Discount:     s.Discount,
	}

	if s.SampleAverage {
		p.StepSize = SampleAverage{}
		return p, nil
	}

	alpha, err := NewConstantStepSize(s.Alpha)
	if err != nil {
		return p, errors.Wrap(err, "loading step size")
	}

	p.StepSize = alpha
	return p, nil
}
