package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "service-reservation"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "service-reservation",
		Short:        "Hotel reservation service: conflict detection and room availability",
		SilenceUsage: true,
	}

	serve := newServeCmd()
	root.RunE = serve.RunE

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newReconcileCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
