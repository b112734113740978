package main

import (
	goflag "flag"

	"github.com/spf13/cobra"
)

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rl",
		Short: "Tabular reinforcement learning on reference environments",
		Long: `rl runs the tabular learning algorithms of go-rl on the reference
environments (coin, gridworld, maxbias) and on the k-armed bandit testbed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog reads its flags from the standard library flag set,
			// which pflag has already filled in.
			if err := goflag.CommandLine.Parse(nil); err != nil {
				return err
			}

			if err := flags.Validate(); err != nil {
				return err
			}

			serveMetrics(flags.MetricsAddr)
			return nil
		},
	}

	addFlags(cmd.PersistentFlags())
	cmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	cmd.AddCommand(
		dpCommand(),
		tdCommand(),
		mcCommand(),
		banditCommand(),
	)

	return cmd
}
