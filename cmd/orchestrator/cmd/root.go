// Package cmd wires the orchestrator's cobra/viper CLI (spec §6: "CLI/env
// deliberately excluded as external collaborator... parameterized by
// bridge-id, contract address, signing keys, fee, RPC endpoints, cycle
// sleep, tx timeout"), following the same cobra-root-plus-viper-binding
// shape evmd's own root command uses.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the orchestrator's root command.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "gravity-orchestrator",
		Short: "bridge orchestrator: EVM event watcher, valset relayer, batch relayer",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd, v)
		},
	}

	rootCmd.AddCommand(NewStartCmd(v))
	return rootCmd
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.AutomaticEnv()
	return nil
}
