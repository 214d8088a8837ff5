package main

import (
	"fmt"
	"os"

	"github.com/cosmos/gravity-orchestrator/cmd/orchestrator/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
