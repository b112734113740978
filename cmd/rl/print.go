package main

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/gridworld"
)

type printer[S, A comparable] func(w io.Writer, env rl.FiniteEnvironment[S, A], value func(S) float64, best func(S) (A, error))

func colorValue(au aurora.Aurora, v float64) aurora.Value {
	s := fmt.Sprintf("%7.3f", v)
	switch {
	case v > 0:
		return au.Green(s)
	case v < 0:
		return au.Red(s)
	}

	return au.White(s)
}

// printStates lists the value and greedy action of every state.
func printStates[S, A comparable](w io.Writer, env rl.FiniteEnvironment[S, A], value func(S) float64, best func(S) (A, error)) {
	au := aurora.NewAurora(flags.Color)
	for _, s := range env.States() {
		fmt.Fprintf(w, "%6v %v", s, colorValue(au, value(s)))
		if a, err := best(s); err == nil {
			fmt.Fprintf(w, "  %v", au.Cyan(a))
		} else {
			fmt.Fprintf(w, "  %v", au.Blue("terminal"))
		}
		fmt.Fprintln(w)
	}
}

// printGrid draws gridworld values with the greedy action below each.
func printGrid(w io.Writer, env rl.FiniteEnvironment[gridworld.State, gridworld.Action], value func(gridworld.State) float64, best func(gridworld.State) (gridworld.Action, error)) {
	au := aurora.NewAurora(flags.Color)
	for row := 0; row < gridworld.Size; row++ {
		for col := 0; col < gridworld.Size; col++ {
			s := gridworld.State(row*gridworld.Size + col)
			fmt.Fprint(w, colorValue(au, value(s)), au.White(" |"))
		}
		fmt.Fprintln(w)

		for col := 0; col < gridworld.Size; col++ {
			s := gridworld.State(row*gridworld.Size + col)
			if a, err := best(s); err == nil {
				fmt.Fprint(w, au.Cyan(fmt.Sprintf("%7v", a)), au.White(" |"))
			} else {
				fmt.Fprint(w, au.Blue(fmt.Sprintf("%7s", "*")), au.White(" |"))
			}
		}
		fmt.Fprintln(w)
	}
}
