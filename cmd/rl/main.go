// Command rl runs tabular reinforcement learning algorithms.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/golang/glog"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := rootCommand().ExecuteContext(ctx)
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
